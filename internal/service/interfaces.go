package service

import (
	"context"

	"github.com/MahdiRahman4/CodeJam2025/internal/api"
	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
)

// RiotAPI is the upstream surface the pipeline needs; *api.RiotClient
// satisfies it.
type RiotAPI interface {
	GetAccount(ctx context.Context, gameName, tagLine string) (*api.AccountResponse, error)
	GetMatchIDs(ctx context.Context, region api.Region, puuid string, count int) ([]string, error)
	GetMatch(ctx context.Context, region api.Region, matchID string) (*api.MatchResponse, error)
	Regions() []api.Region
}

type PlayerStore interface {
	Upsert(ctx context.Context, player *domain.Player) error
}

type MatchStore interface {
	UpsertBatch(ctx context.Context, games []domain.GameStats) error
}

type SummaryStore interface {
	Upsert(ctx context.Context, summary *domain.PlayerSummary) error
}

type RunStore interface {
	Record(ctx context.Context, run *domain.IngestionRun) error
}

type PlayerReader interface {
	Get(ctx context.Context, puuid string) (*domain.Player, error)
	GetByName(ctx context.Context, gameName, tagLine string) (*domain.Player, error)
}

type SummaryReader interface {
	Get(ctx context.Context, puuid string) (*domain.PlayerSummary, error)
	Top(ctx context.Context, orderBy string, limit int) ([]domain.PlayerSummary, error)
}

type MatchReader interface {
	GetByPuuid(ctx context.Context, puuid string, limit int) ([]domain.GameStats, error)
}

type RunReader interface {
	Latest(ctx context.Context, puuid string, limit int) ([]domain.IngestionRun, error)
}
