package service

import (
	"context"
	"errors"

	"github.com/MahdiRahman4/CodeJam2025/internal/constants"
	"github.com/MahdiRahman4/CodeJam2025/internal/domain"

	"github.com/rs/zerolog"
)

// PlayerService answers identity lookups from the local store only; it
// never calls upstream.
type PlayerService struct {
	players PlayerReader
	logger  zerolog.Logger
}

func NewPlayerService(players PlayerReader, logger zerolog.Logger) *PlayerService {
	return &PlayerService{players: players, logger: logger}
}

func (s *PlayerService) Player(ctx context.Context, puuid string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.players.Get(ctx, puuid)
}

// Lookup finds an ingested player by handle. Case is ignored, so "FAKER#kr1"
// finds the row stored as "Faker#KR1".
func (s *PlayerService) Lookup(ctx context.Context, handle domain.PlayerHandle) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.players.GetByName(ctx, handle.GameName, handle.TagLine)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error().Err(err).Str("handle", handle.String()).Msg("failed to look up player")
		}
		return nil, err
	}
	return player, nil
}
