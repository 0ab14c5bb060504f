package service

import (
	"context"

	"github.com/MahdiRahman4/CodeJam2025/internal/api"

	"github.com/rs/zerolog"
)

// Discovery is the outcome of region routing. Region is nil when no region
// returned any match ids.
type Discovery struct {
	MatchIDs []string
	Region   *api.Region
	Partial  bool
}

type RegionRouter struct {
	riot   RiotAPI
	logger zerolog.Logger
}

func NewRegionRouter(riot RiotAPI, logger zerolog.Logger) *RegionRouter {
	return &RegionRouter{riot: riot, logger: logger}
}

// Discover walks the regions in order. The first region with at least count
// ids wins outright; otherwise the first non-empty partial list is kept as
// the fallback. Failing or empty regions are skipped.
func (r *RegionRouter) Discover(ctx context.Context, puuid string, count int) Discovery {
	var fallback *Discovery

	for _, region := range r.riot.Regions() {
		region := region
		r.logger.Debug().Str("region", region.Name).Str("puuid", puuid).Msg("looking up match ids")

		ids, err := r.riot.GetMatchIDs(ctx, region, puuid, count)
		if err != nil {
			r.logger.Debug().Err(err).Str("region", region.Name).Msg("region lookup failed, skipping")
			continue
		}
		if len(ids) == 0 {
			continue
		}

		if len(ids) >= count {
			r.logger.Info().
				Str("puuid", puuid).
				Str("region", region.Name).
				Int("match_count", len(ids)).
				Bool("partial", false).
				Msg("region chosen")
			return Discovery{MatchIDs: ids, Region: &region}
		}
		if fallback == nil {
			fallback = &Discovery{MatchIDs: ids, Region: &region, Partial: true}
		}
	}

	if fallback != nil {
		r.logger.Info().
			Str("puuid", puuid).
			Str("region", fallback.Region.Name).
			Int("match_count", len(fallback.MatchIDs)).
			Bool("partial", true).
			Msg("region chosen")
		return *fallback
	}

	r.logger.Info().Str("puuid", puuid).Msg("no matches found in any region")
	return Discovery{}
}
