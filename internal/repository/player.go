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

const upsertPlayerSQL = `
INSERT INTO players (puuid, game_name, tag_line, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (puuid) DO UPDATE SET
    game_name  = excluded.game_name,
    tag_line   = excluded.tag_line,
    updated_at = excluded.updated_at`

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: sqlDB, logger: logger}
}

// Upsert inserts the player or refreshes its canonical name. created_at is
// kept from the first insert.
func (r *PlayerRepository) Upsert(ctx context.Context, player *domain.Player) error {
	now := time.Now().UTC()
	if player.CreatedAt.IsZero() {
		player.CreatedAt = now
	}
	player.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, upsertPlayerSQL,
		player.Puuid, player.GameName, player.TagLine, player.CreatedAt, player.UpdatedAt,
	); err != nil {
		r.logger.Error().Err(err).Str("puuid", player.Puuid).Msg("failed to upsert player")
		return fmt.Errorf("upsert player %s: %w", player.Puuid, err)
	}

	r.logger.Debug().Str("puuid", player.Puuid).Msg("player upserted")
	return nil
}

func (r *PlayerRepository) Get(ctx context.Context, puuid string) (*domain.Player, error) {
	var p domain.Player
	err := r.db.QueryRowContext(ctx,
		`SELECT puuid, game_name, tag_line, created_at, updated_at FROM players WHERE puuid = ?`, puuid,
	).Scan(&p.Puuid, &p.GameName, &p.TagLine, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByName looks a player up by handle, ignoring case.
func (r *PlayerRepository) GetByName(ctx context.Context, gameName, tagLine string) (*domain.Player, error) {
	var p domain.Player
	err := r.db.QueryRowContext(ctx,
		`SELECT puuid, game_name, tag_line, created_at, updated_at FROM players
		 WHERE game_name = ? COLLATE NOCASE AND tag_line = ? COLLATE NOCASE`, gameName, tagLine,
	).Scan(&p.Puuid, &p.GameName, &p.TagLine, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
