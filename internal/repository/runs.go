package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MahdiRahman4/CodeJam2025/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RunRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRunRepository(sqlDB *sql.DB, logger zerolog.Logger) *RunRepository {
	return &RunRepository{db: sqlDB, logger: logger}
}

// Record appends an audit row. A missing ID is filled with a nanoid.
func (r *RunRepository) Record(ctx context.Context, run *domain.IngestionRun) error {
	if run.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		run.ID = id
	}

	var puuid *string
	if run.Puuid != "" {
		puuid = &run.Puuid
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (id, game_name, tag_line, puuid, success, reason, message, matches_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.GameName, run.TagLine, puuid, run.Success, run.Reason, run.Message,
		run.MatchesCount, run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion run: %w", err)
	}

	r.logger.Debug().Str("run_id", run.ID).Str("reason", run.Reason).Msg("ingestion run recorded")
	return nil
}

// Latest returns the most recent runs for a puuid, newest first.
func (r *RunRepository) Latest(ctx context.Context, puuid string, limit int) ([]domain.IngestionRun, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, game_name, tag_line, COALESCE(puuid, ''), success, reason, message, matches_count, started_at, finished_at
		FROM ingestion_runs WHERE puuid = ? ORDER BY finished_at DESC LIMIT ?`, puuid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []domain.IngestionRun{}
	for rows.Next() {
		var run domain.IngestionRun
		if err := rows.Scan(
			&run.ID, &run.GameName, &run.TagLine, &run.Puuid, &run.Success, &run.Reason,
			&run.Message, &run.MatchesCount, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
