package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
)

var ErrInsufficientHistory = errors.New("insufficient match history")

// RegionFromMatchID returns the routing prefix before the first "_".
func RegionFromMatchID(matchID string) *string {
	if matchID == "" {
		return nil
	}
	prefix, _, _ := strings.Cut(matchID, "_")
	return &prefix
}

// Aggregate reduces a validated sample to one summary. The region comes from
// the first discovered id, even if that match was later dropped.
//
// Rate means (dpm, gpm, cs/min) average the per-match rates; raw means
// (damage, vision, cs, gold) average running totals. The two are not
// reconciled.
func Aggregate(player *domain.Player, games []domain.GameStats, discovered []string, minMatches int) (*domain.PlayerSummary, error) {
	if len(games) < minMatches || len(games) == 0 {
		return nil, fmt.Errorf("%w: %d valid matches, need %d", ErrInsufficientHistory, len(games), minMatches)
	}

	var (
		kills, deaths, assists, kdaSum float64
		dpm, gpm, csPerMin, impact     float64
		totalDamage, totalVision       float64
		totalCS, totalGold             float64
		wins                           int
	)

	for _, g := range games {
		kills += float64(g.Kills)
		deaths += float64(g.Deaths)
		assists += float64(g.Assists)
		kdaSum += g.KDA
		dpm += g.DamagePerMin
		gpm += g.GoldPerMin
		csPerMin += g.CSPerMin
		impact += g.ImpactScore

		totalDamage += float64(g.Damage)
		totalVision += float64(g.VisionScore)
		totalCS += float64(g.CS)
		totalGold += float64(g.Gold)

		if g.Win {
			wins++
		}
	}

	n := float64(len(games))
	summary := &domain.PlayerSummary{
		Puuid:    player.Puuid,
		GameName: player.GameName,
		TagLine:  player.TagLine,

		AvgKills:       kills / n,
		AvgDeaths:      deaths / n,
		AvgAssists:     assists / n,
		AvgKDA:         kdaSum / n,
		WinRate:        float64(wins) / n * 100,
		AvgDPM:         dpm / n,
		AvgGPM:         gpm / n,
		AvgCSPerMin:    csPerMin / n,
		AvgImpactScore: impact / n,

		AvgDamage:      totalDamage / n,
		AvgVisionScore: totalVision / n,
		AvgCS:          totalCS / n,
		AvgGold:        totalGold / n,

		MatchesCount: len(games),
	}
	if len(discovered) > 0 {
		summary.Region = RegionFromMatchID(discovered[0])
	}
	return summary, nil
}
