package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MahdiRahman4/CodeJam2025/internal/domain"

	"github.com/rs/zerolog"
)

var ErrAccountNotFound = errors.New("account not resolvable")

type AccountResolver struct {
	riot   RiotAPI
	logger zerolog.Logger
}

func NewAccountResolver(riot RiotAPI, logger zerolog.Logger) *AccountResolver {
	return &AccountResolver{riot: riot, logger: logger}
}

// Resolve maps a typed handle to a stable identity. The canonical spelling
// from upstream wins; the typed spelling is only a fallback.
func (r *AccountResolver) Resolve(ctx context.Context, handle domain.PlayerHandle) (*domain.Player, error) {
	acc, err := r.riot.GetAccount(ctx, handle.GameName, handle.TagLine)
	if err != nil {
		r.logger.Warn().Err(err).Str("handle", handle.String()).Msg("failed to resolve account")
		return nil, fmt.Errorf("%w: %s: %w", ErrAccountNotFound, handle, err)
	}
	if acc.Puuid == "" {
		r.logger.Warn().Str("handle", handle.String()).Msg("account response missing puuid")
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, handle)
	}

	player := &domain.Player{
		Puuid:    acc.Puuid,
		GameName: acc.GameName,
		TagLine:  acc.TagLine,
	}
	if player.GameName == "" {
		player.GameName = handle.GameName
	}
	if player.TagLine == "" {
		player.TagLine = handle.TagLine
	}

	r.logger.Info().
		Str("handle", handle.String()).
		Str("puuid", player.Puuid).
		Str("game_name", player.GameName).
		Str("tag_line", player.TagLine).
		Msg("account resolved")
	return player, nil
}
