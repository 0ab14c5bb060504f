package service

import (
	"errors"

	"github.com/MahdiRahman4/CodeJam2025/internal/api"
	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
	"github.com/MahdiRahman4/CodeJam2025/internal/metrics"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidDuration     = errors.New("invalid game duration")
	ErrParticipantNotFound = errors.New("player not found in match")
)

// metric labels for skipped matches
const (
	skipInvalidDuration = "invalid_duration"
	skipNotParticipant  = "participant_not_found"
)

type MatchAnalyzer struct {
	scorer  *ImpactScorer
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewMatchAnalyzer(scorer *ImpactScorer, m *metrics.Metrics, logger zerolog.Logger) *MatchAnalyzer {
	return &MatchAnalyzer{scorer: scorer, metrics: m, logger: logger}
}

// Analyze converts every fetched match it can; the rest are logged and
// dropped. Output order follows input order.
func (a *MatchAnalyzer) Analyze(puuid string, fetched []FetchedMatch) []domain.GameStats {
	games := make([]domain.GameStats, 0, len(fetched))
	for _, f := range fetched {
		g, err := a.AnalyzeMatch(f.MatchID, puuid, f.Match)
		if err != nil {
			reason := skipNotParticipant
			if errors.Is(err, ErrInvalidDuration) {
				reason = skipInvalidDuration
			}
			a.metrics.ObserveSkippedMatch(reason)
			a.logger.Warn().
				Str("match_id", f.MatchID).
				Str("puuid", puuid).
				Str("reason", reason).
				Msg("skipping match")
			continue
		}

		a.logger.Debug().
			Str("match_id", g.MatchID).
			Str("champion", g.Champion).
			Int("kills", g.Kills).
			Int("deaths", g.Deaths).
			Int("assists", g.Assists).
			Float64("kda", g.KDA).
			Float64("cs_per_min", g.CSPerMin).
			Float64("dpm", g.DamagePerMin).
			Float64("gpm", g.GoldPerMin).
			Float64("kp", g.KillParticipation).
			Float64("damage_share", g.DamageShare).
			Bool("win", g.Win).
			Msg("match analyzed")
		games = append(games, g)
	}
	return games
}

// AnalyzeMatch derives one GameStats record. Shares are relative to the
// player's own team and are 0 when the team total is 0.
func (a *MatchAnalyzer) AnalyzeMatch(matchID, puuid string, match *api.MatchResponse) (domain.GameStats, error) {
	if match == nil || match.Info.GameDuration == nil || *match.Info.GameDuration <= 0 {
		return domain.GameStats{}, ErrInvalidDuration
	}
	duration := *match.Info.GameDuration

	me, ok := match.Participant(puuid)
	if !ok {
		return domain.GameStats{}, ErrParticipantNotFound
	}

	var teamKills, teamDamage int
	for _, p := range match.Info.Participants {
		if p.TeamID == 0 || p.TeamID != me.TeamID {
			continue
		}
		teamKills += p.Kills
		teamDamage += p.TotalDamageDealtToChampions
	}

	minutes := float64(duration) / 60.0
	cs := me.TotalMinionsKilled + me.NeutralMinionsKilled
	takedowns := me.Kills + me.Assists

	g := domain.GameStats{
		MatchID:  matchID,
		Puuid:    puuid,
		Champion: me.ChampionName,
		Role:     optional(me.TeamPosition),
		Lane:     optional(me.Lane),

		Kills:   me.Kills,
		Deaths:  me.Deaths,
		Assists: me.Assists,
		KDA:     kda(me.Kills, me.Deaths, me.Assists),

		KillParticipation: share(takedowns, teamKills),
		KillShare:         share(me.Kills, teamKills),
		DamageShare:       share(me.TotalDamageDealtToChampions, teamDamage),

		DamagePerMin:      float64(me.TotalDamageDealtToChampions) / minutes,
		GoldPerMin:        float64(me.GoldEarned) / minutes,
		CS:                cs,
		CSPerMin:          float64(cs) / minutes,
		VisionScore:       me.VisionScore,
		VisionPerMin:      float64(me.VisionScore) / minutes,
		DamageTakenPerMin: float64(me.TotalDamageTaken) / minutes,

		Gold:        me.GoldEarned,
		Damage:      me.TotalDamageDealtToChampions,
		DamageTaken: me.TotalDamageTaken,
		DamageToObj: me.DamageDealtToObjectives,

		WardsPlaced: me.WardsPlaced,
		WardsKilled: me.WardsKilled,

		TurretKills: me.TurretKills,
		DragonKills: me.DragonKills,
		BaronKills:  me.BaronKills,
		HeraldKills: me.RiftHeraldKills,

		DoubleKills: me.DoubleKills,
		TripleKills: me.TripleKills,
		QuadraKills: me.QuadraKills,
		PentaKills:  me.PentaKills,

		GameDuration: duration,
		Win:          me.Win,
		MatchTS:      match.StartedAt(),
	}
	g.ImpactScore = a.scorer.Score(g)
	return g, nil
}

// kda is (k+a)/d, or k+a for a deathless game.
func kda(kills, deaths, assists int) float64 {
	if deaths > 0 {
		return float64(kills+assists) / float64(deaths)
	}
	return float64(kills + assists)
}

func share(part, total int) float64 {
	if total > 0 {
		return float64(part) / float64(total)
	}
	return 0
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
