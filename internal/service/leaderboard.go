package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MahdiRahman4/CodeJam2025/internal/constants"
	"github.com/MahdiRahman4/CodeJam2025/internal/domain"

	"github.com/rs/zerolog"
)

var ErrInvalidSort = errors.New("unsupported leaderboard sort column")

const DefaultLeaderboardSort = "avg_kda"

// sortable summary columns, all ranked descending
var leaderboardColumns = map[string]struct{}{
	"avg_kda":          {},
	"avg_impact_score": {},
	"avg_damage":       {},
	"avg_cs":           {},
	"avg_gold":         {},
	"avg_vision_score": {},
	"win_rate":         {},
}

type LeaderboardService struct {
	summaries SummaryReader
	matches   MatchReader
	runs      RunReader
	logger    zerolog.Logger
}

func NewLeaderboardService(summaries SummaryReader, matches MatchReader, runs RunReader, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{summaries: summaries, matches: matches, runs: runs, logger: logger}
}

func (s *LeaderboardService) Top(ctx context.Context, sort string, limit int) ([]domain.PlayerSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if sort == "" {
		sort = DefaultLeaderboardSort
	}
	if _, ok := leaderboardColumns[sort]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, sort)
	}
	switch {
	case limit <= 0:
		limit = constants.LeaderboardDefaultLimit
	case limit > constants.LeaderboardMaxLimit:
		limit = constants.LeaderboardMaxLimit
	}

	rows, err := s.summaries.Top(ctx, sort, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("sort", sort).Msg("failed to load leaderboard")
		return nil, err
	}
	s.logger.Debug().Str("sort", sort).Int("count", len(rows)).Msg("leaderboard loaded")
	return rows, nil
}

func (s *LeaderboardService) Summary(ctx context.Context, puuid string) (*domain.PlayerSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.summaries.Get(ctx, puuid)
}

func (s *LeaderboardService) Matches(ctx context.Context, puuid string) ([]domain.GameStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.matches.GetByPuuid(ctx, puuid, constants.MatchHistoryLimit)
}

// Runs returns the latest ingestion attempts recorded for puuid.
func (s *LeaderboardService) Runs(ctx context.Context, puuid string) ([]domain.IngestionRun, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.runs.Latest(ctx, puuid, constants.RunHistoryLimit)
}
