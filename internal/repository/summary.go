package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MahdiRahman4/CodeJam2025/internal/domain"

	"github.com/rs/zerolog"
)

const summaryColumns = `puuid, game_name, tag_line, region,
    avg_kills, avg_deaths, avg_assists, avg_kda, win_rate,
    avg_dpm, avg_gpm, avg_cs_per_min, avg_impact_score,
    avg_damage, avg_vision_score, avg_cs, avg_gold,
    matches_count, created_at, updated_at`

const upsertSummarySQL = `
INSERT INTO player_summaries (` + summaryColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (puuid) DO UPDATE SET
    game_name        = excluded.game_name,
    tag_line         = excluded.tag_line,
    region           = excluded.region,
    avg_kills        = excluded.avg_kills,
    avg_deaths       = excluded.avg_deaths,
    avg_assists      = excluded.avg_assists,
    avg_kda          = excluded.avg_kda,
    win_rate         = excluded.win_rate,
    avg_dpm          = excluded.avg_dpm,
    avg_gpm          = excluded.avg_gpm,
    avg_cs_per_min   = excluded.avg_cs_per_min,
    avg_impact_score = excluded.avg_impact_score,
    avg_damage       = excluded.avg_damage,
    avg_vision_score = excluded.avg_vision_score,
    avg_cs           = excluded.avg_cs,
    avg_gold         = excluded.avg_gold,
    matches_count    = excluded.matches_count,
    updated_at       = excluded.updated_at`

// columns Top may order by; anything else is rejected before it reaches SQL
var summaryOrderColumns = map[string]struct{}{
	"avg_kda":          {},
	"avg_impact_score": {},
	"avg_damage":       {},
	"avg_cs":           {},
	"avg_gold":         {},
	"avg_vision_score": {},
	"win_rate":         {},
}

var ErrUnknownColumn = errors.New("unknown summary column")

type SummaryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSummaryRepository(sqlDB *sql.DB, logger zerolog.Logger) *SummaryRepository {
	return &SummaryRepository{db: sqlDB, logger: logger}
}

// Upsert replaces the player's summary with a freshly computed one.
func (r *SummaryRepository) Upsert(ctx context.Context, s *domain.PlayerSummary) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, upsertSummarySQL,
		s.Puuid, s.GameName, s.TagLine, s.Region,
		s.AvgKills, s.AvgDeaths, s.AvgAssists, s.AvgKDA, s.WinRate,
		s.AvgDPM, s.AvgGPM, s.AvgCSPerMin, s.AvgImpactScore,
		s.AvgDamage, s.AvgVisionScore, s.AvgCS, s.AvgGold,
		s.MatchesCount, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		r.logger.Error().Err(err).Str("puuid", s.Puuid).Msg("failed to upsert summary")
		return fmt.Errorf("upsert summary %s: %w", s.Puuid, err)
	}
	return nil
}

func (r *SummaryRepository) Get(ctx context.Context, puuid string) (*domain.PlayerSummary, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM player_summaries WHERE puuid = ?`, puuid)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Top ranks summaries by orderBy, descending, ties broken by puuid.
func (r *SummaryRepository) Top(ctx context.Context, orderBy string, limit int) ([]domain.PlayerSummary, error) {
	if _, ok := summaryOrderColumns[orderBy]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, orderBy)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+summaryColumns+` FROM player_summaries ORDER BY `+orderBy+` DESC, puuid ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.PlayerSummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (*domain.PlayerSummary, error) {
	var s domain.PlayerSummary
	err := row.Scan(
		&s.Puuid, &s.GameName, &s.TagLine, &s.Region,
		&s.AvgKills, &s.AvgDeaths, &s.AvgAssists, &s.AvgKDA, &s.WinRate,
		&s.AvgDPM, &s.AvgGPM, &s.AvgCSPerMin, &s.AvgImpactScore,
		&s.AvgDamage, &s.AvgVisionScore, &s.AvgCS, &s.AvgGold,
		&s.MatchesCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
