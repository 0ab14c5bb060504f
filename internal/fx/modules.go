package fx

import (
	"database/sql"

	"github.com/MahdiRahman4/CodeJam2025/internal/api"
	"github.com/MahdiRahman4/CodeJam2025/internal/config"
	"github.com/MahdiRahman4/CodeJam2025/internal/database"
	"github.com/MahdiRahman4/CodeJam2025/internal/logger"
	"github.com/MahdiRahman4/CodeJam2025/internal/metrics"
	"github.com/MahdiRahman4/CodeJam2025/internal/repository"
	"github.com/MahdiRahman4/CodeJam2025/internal/server"
	"github.com/MahdiRahman4/CodeJam2025/internal/service"

	"go.uber.org/fx"
)

func ProvideRiotAPI(client *api.RiotClient) service.RiotAPI {
	return client
}

func ProvideIngester(svc *service.IngestionService) server.Ingester {
	return svc
}

func ProvideStatsReader(svc *service.LeaderboardService) server.StatsReader {
	return svc
}

func ProvideRivalComparer(svc *service.RivalService) server.RivalComparer {
	return svc
}

func ProvidePlayerFinder(svc *service.PlayerService) server.PlayerFinder {
	return svc
}

func ProvidePinger(sqlDB *sql.DB) server.Pinger {
	return sqlDB
}

// Module is everything an ingestion run needs: config, logging, metrics,
// storage, the upstream client and the services.
var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	database.Module,
	// repos
	fx.Provide(
		fx.Annotate(repository.NewPlayerRepository, fx.As(new(service.PlayerStore)), fx.As(new(service.PlayerReader))),
		fx.Annotate(repository.NewMatchRepository, fx.As(new(service.MatchStore)), fx.As(new(service.MatchReader))),
		fx.Annotate(repository.NewSummaryRepository, fx.As(new(service.SummaryStore)), fx.As(new(service.SummaryReader))),
		fx.Annotate(repository.NewRunRepository, fx.As(new(service.RunStore)), fx.As(new(service.RunReader))),
	),
	// api client
	api.Module,
	fx.Provide(ProvideRiotAPI),
	// svc
	service.Module,
)

// ServerModule adds the HTTP layer on top of Module.
var ServerModule = fx.Options(
	Module,
	fx.Provide(ProvideIngester),
	fx.Provide(ProvideStatsReader),
	fx.Provide(ProvideRivalComparer),
	fx.Provide(ProvidePlayerFinder),
	fx.Provide(ProvidePinger),
	fx.Provide(server.NewTrackerServer),
)
