package service

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewIngestionService),
	fx.Provide(NewLeaderboardService),
	fx.Provide(NewRivalService),
	fx.Provide(NewPlayerService),
)
