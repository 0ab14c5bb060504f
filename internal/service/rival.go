package service

import (
	"context"
	"fmt"

	"github.com/MahdiRahman4/CodeJam2025/internal/constants"
	"github.com/MahdiRahman4/CodeJam2025/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type RivalService struct {
	summaries SummaryReader
	logger    zerolog.Logger
}

func NewRivalService(summaries SummaryReader, logger zerolog.Logger) *RivalService {
	return &RivalService{summaries: summaries, logger: logger}
}

// Compare puts two summaries side by side. Only higher-is-better metrics are
// compared; Edge is the mean share, so 0.5 means evenly matched.
func (s *RivalService) Compare(ctx context.Context, puuid, rivalPuuid string) (*domain.RivalComparison, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var player, rival *domain.PlayerSummary
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		player, err = s.summaries.Get(gCtx, puuid)
		if err != nil {
			return fmt.Errorf("summary for %s: %w", puuid, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rival, err = s.summaries.Get(gCtx, rivalPuuid)
		if err != nil {
			return fmt.Errorf("summary for %s: %w", rivalPuuid, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Str("puuid", puuid).Str("rival_puuid", rivalPuuid).Msg("failed to load rival summaries")
		return nil, err
	}

	return CompareSummaries(player, rival), nil
}

func CompareSummaries(player, rival *domain.PlayerSummary) *domain.RivalComparison {
	pairs := []struct {
		metric string
		a, b   float64
	}{
		{"avg_kda", player.AvgKDA, rival.AvgKDA},
		{"avg_impact_score", player.AvgImpactScore, rival.AvgImpactScore},
		{"avg_damage", player.AvgDamage, rival.AvgDamage},
		{"avg_cs", player.AvgCS, rival.AvgCS},
		{"avg_gold", player.AvgGold, rival.AvgGold},
		{"avg_vision_score", player.AvgVisionScore, rival.AvgVisionScore},
		{"win_rate", player.WinRate, rival.WinRate},
	}

	out := &domain.RivalComparison{Puuid: player.Puuid, RivalPuuid: rival.Puuid}
	var total float64
	for _, p := range pairs {
		sh := headToHead(p.a, p.b)
		total += sh
		out.Metrics = append(out.Metrics, domain.MetricComparison{Metric: p.metric, Player: p.a, Rival: p.b, Share: sh})
	}
	out.Edge = total / float64(len(pairs))
	return out
}

// headToHead is a/(a+b), or 0.5 when neither side has anything.
func headToHead(a, b float64) float64 {
	if a+b == 0 {
		return 0.5
	}
	return a / (a + b)
}
