package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MahdiRahman4/CodeJam2025/internal/constants"
	"github.com/MahdiRahman4/CodeJam2025/internal/domain"

	"github.com/rs/zerolog"
)

const matchColumns = `match_id, player_puuid, champion, role, lane,
    kills, deaths, assists, kda, kp, kill_share, damage_share,
    dpm, gpm, cs, cs_per_min, vision_score, vision_per_min,
    wards_placed, wards_killed, gold, damage, damage_to_obj, damage_taken, dtpm,
    turret_kills, dragon_kills, baron_kills, herald_kills,
    double_kills, triple_kills, quadra_kills, penta_kills,
    game_duration, win, impact_score, match_ts, created_at, updated_at`

const upsertMatchSQL = `
INSERT INTO matches (` + matchColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
        ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (match_id, player_puuid) DO UPDATE SET
    champion       = excluded.champion,
    role           = excluded.role,
    lane           = excluded.lane,
    kills          = excluded.kills,
    deaths         = excluded.deaths,
    assists        = excluded.assists,
    kda            = excluded.kda,
    kp             = excluded.kp,
    kill_share     = excluded.kill_share,
    damage_share   = excluded.damage_share,
    dpm            = excluded.dpm,
    gpm            = excluded.gpm,
    cs             = excluded.cs,
    cs_per_min     = excluded.cs_per_min,
    vision_score   = excluded.vision_score,
    vision_per_min = excluded.vision_per_min,
    wards_placed   = excluded.wards_placed,
    wards_killed   = excluded.wards_killed,
    gold           = excluded.gold,
    damage         = excluded.damage,
    damage_to_obj  = excluded.damage_to_obj,
    damage_taken   = excluded.damage_taken,
    dtpm           = excluded.dtpm,
    turret_kills   = excluded.turret_kills,
    dragon_kills   = excluded.dragon_kills,
    baron_kills    = excluded.baron_kills,
    herald_kills   = excluded.herald_kills,
    double_kills   = excluded.double_kills,
    triple_kills   = excluded.triple_kills,
    quadra_kills   = excluded.quadra_kills,
    penta_kills    = excluded.penta_kills,
    game_duration  = excluded.game_duration,
    win            = excluded.win,
    impact_score   = excluded.impact_score,
    match_ts       = excluded.match_ts,
    updated_at     = excluded.updated_at`

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: sqlDB, logger: logger}
}

// UpsertBatch writes all games in one transaction, so a failure leaves none
// of them applied.
func (r *MatchRepository) UpsertBatch(ctx context.Context, games []domain.GameStats) error {
	if len(games) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertMatchSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare match upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := 0; i < len(games); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(games))

		for j := range games[i:end] {
			g := &games[i+j]
			if g.CreatedAt.IsZero() {
				g.CreatedAt = now
			}
			g.UpdatedAt = now

			if _, err := stmt.ExecContext(ctx,
				g.MatchID, g.Puuid, g.Champion, g.Role, g.Lane,
				g.Kills, g.Deaths, g.Assists, g.KDA, g.KillParticipation, g.KillShare, g.DamageShare,
				g.DamagePerMin, g.GoldPerMin, g.CS, g.CSPerMin, g.VisionScore, g.VisionPerMin,
				g.WardsPlaced, g.WardsKilled, g.Gold, g.Damage, g.DamageToObj, g.DamageTaken, g.DamageTakenPerMin,
				g.TurretKills, g.DragonKills, g.BaronKills, g.HeraldKills,
				g.DoubleKills, g.TripleKills, g.QuadraKills, g.PentaKills,
				g.GameDuration, g.Win, g.ImpactScore, g.MatchTS, g.CreatedAt, g.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to upsert match %s: %w", g.MatchID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit matches: %w", err)
	}
	r.logger.Debug().Int("count", len(games)).Str("puuid", games[0].Puuid).Msg("matches upserted")
	return nil
}

// GetByPuuid returns the player's most recent games, newest first.
func (r *MatchRepository) GetByPuuid(ctx context.Context, puuid string, limit int) ([]domain.GameStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE player_puuid = ? ORDER BY match_ts DESC LIMIT ?`,
		puuid, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []domain.GameStats{}
	for rows.Next() {
		var g domain.GameStats
		if err := rows.Scan(
			&g.MatchID, &g.Puuid, &g.Champion, &g.Role, &g.Lane,
			&g.Kills, &g.Deaths, &g.Assists, &g.KDA, &g.KillParticipation, &g.KillShare, &g.DamageShare,
			&g.DamagePerMin, &g.GoldPerMin, &g.CS, &g.CSPerMin, &g.VisionScore, &g.VisionPerMin,
			&g.WardsPlaced, &g.WardsKilled, &g.Gold, &g.Damage, &g.DamageToObj, &g.DamageTaken, &g.DamageTakenPerMin,
			&g.TurretKills, &g.DragonKills, &g.BaronKills, &g.HeraldKills,
			&g.DoubleKills, &g.TripleKills, &g.QuadraKills, &g.PentaKills,
			&g.GameDuration, &g.Win, &g.ImpactScore, &g.MatchTS, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
