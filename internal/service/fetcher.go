package service

import (
	"context"

	"github.com/MahdiRahman4/CodeJam2025/internal/api"
	"github.com/MahdiRahman4/CodeJam2025/internal/metrics"

	"github.com/rs/zerolog"
)

const skipFetchFailed = "fetch_failed"

type FetchedMatch struct {
	MatchID string
	Match   *api.MatchResponse
}

type MatchFetcher struct {
	riot    RiotAPI
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewMatchFetcher(riot RiotAPI, m *metrics.Metrics, logger zerolog.Logger) *MatchFetcher {
	return &MatchFetcher{riot: riot, metrics: m, logger: logger}
}

// Fetch retrieves details one id at a time so every call passes through the
// shared limiter in order. A failed id is dropped; the rest continue.
func (f *MatchFetcher) Fetch(ctx context.Context, region api.Region, matchIDs []string) []FetchedMatch {
	fetched := make([]FetchedMatch, 0, len(matchIDs))
	for _, id := range matchIDs {
		match, err := f.riot.GetMatch(ctx, region, id)
		if err != nil {
			f.metrics.ObserveSkippedMatch(skipFetchFailed)
			f.logger.Warn().
				Err(err).
				Str("match_id", id).
				Str("region", region.Name).
				Int("status", api.StatusOf(err)).
				Str("reason", skipFetchFailed).
				Msg("skipping match")
			continue
		}
		fetched = append(fetched, FetchedMatch{MatchID: id, Match: match})
	}
	return fetched
}
