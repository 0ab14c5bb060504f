package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MahdiRahman4/CodeJam2025/internal/config"
	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
	"github.com/MahdiRahman4/CodeJam2025/internal/metrics"

	"github.com/rs/zerolog"
)

// IngestionService runs one player at a time through
// resolve -> discover -> fetch+analyze -> threshold -> persist.
// Every terminal is reported as a domain.IngestResult; nothing is returned
// as an error.
type IngestionService struct {
	resolver *AccountResolver
	router   *RegionRouter
	fetcher  *MatchFetcher
	analyzer *MatchAnalyzer

	players   PlayerStore
	matches   MatchStore
	summaries SummaryStore
	runs      RunStore

	minMatches int
	matchCount int

	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewIngestionService(
	cfg *config.Config,
	riot RiotAPI,
	players PlayerStore,
	matches MatchStore,
	summaries SummaryStore,
	runs RunStore,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *IngestionService {
	return &IngestionService{
		resolver:   NewAccountResolver(riot, logger),
		router:     NewRegionRouter(riot, logger),
		fetcher:    NewMatchFetcher(riot, m, logger),
		analyzer:   NewMatchAnalyzer(NewImpactScorer(), m, logger),
		players:    players,
		matches:    matches,
		summaries:  summaries,
		runs:       runs,
		minMatches: cfg.MinMatches,
		matchCount: cfg.MatchCount,
		metrics:    m,
		logger:     logger,
	}
}

// Ingest processes a single handle. minMatches <= 0 means the configured
// default. Persistence is three independent upserts; if a later one fails
// the earlier ones stay committed and the run reports failure.
func (s *IngestionService) Ingest(ctx context.Context, gameName, tagLine string, minMatches int) domain.IngestResult {
	if minMatches <= 0 {
		minMatches = s.minMatches
	}
	count := max(s.matchCount, minMatches)

	handle := domain.PlayerHandle{GameName: gameName, TagLine: tagLine}
	run := &domain.IngestionRun{
		GameName:  gameName,
		TagLine:   tagLine,
		StartedAt: time.Now(),
	}
	log := s.logger.With().Str("handle", handle.String()).Logger()
	log.Info().Int("min_matches", minMatches).Int("match_count", count).Msg("ingestion started")

	player, err := s.resolver.Resolve(ctx, handle)
	if err != nil {
		return s.finish(ctx, run, domain.IngestResult{
			Reason:  domain.ReasonAccountNotFound,
			Message: "Failed to resolve account from Riot API. Please check your Riot ID.",
		})
	}
	run.Puuid = player.Puuid
	log = log.With().Str("puuid", player.Puuid).Logger()

	resolved := func(r domain.IngestResult) domain.IngestResult {
		r.ResolvedGameName = player.GameName
		r.ResolvedTagLine = player.TagLine
		return r
	}

	discovery := s.router.Discover(ctx, player.Puuid, count)
	if len(discovery.MatchIDs) == 0 || discovery.Region == nil {
		return s.finish(ctx, run, resolved(domain.IngestResult{
			Reason:  domain.ReasonNoMatches,
			Message: "No matches found for this player in any region.",
		}))
	}
	if len(discovery.MatchIDs) < minMatches {
		log.Info().
			Int("discovered", len(discovery.MatchIDs)).
			Int("min_matches", minMatches).
			Msg("not enough matches discovered, skipping fetch")
		return s.finish(ctx, run, resolved(domain.IngestResult{
			Reason:       domain.ReasonInsufficientDiscovered,
			Message:      insufficientMessage(minMatches),
			MatchesCount: len(discovery.MatchIDs),
		}))
	}

	fetched := s.fetcher.Fetch(ctx, *discovery.Region, discovery.MatchIDs)
	games := s.analyzer.Analyze(player.Puuid, fetched)

	summary, err := Aggregate(player, games, discovery.MatchIDs, minMatches)
	if err != nil {
		log.Info().Int("valid", len(games)).Int("min_matches", minMatches).Msg("not enough valid matches")
		return s.finish(ctx, run, resolved(domain.IngestResult{
			Reason:       domain.ReasonInsufficientValid,
			Message:      insufficientMessage(minMatches),
			MatchesCount: len(games),
		}))
	}

	if reason, err := s.persist(ctx, player, games, summary); err != nil {
		log.Error().Err(err).Str("reason", reason).Msg("persistence incomplete")
		return s.finish(ctx, run, resolved(domain.IngestResult{
			Reason:       reason,
			Message:      fmt.Sprintf("Failed to store data for %s#%s: %v", player.GameName, player.TagLine, err),
			MatchesCount: len(games),
		}))
	}

	region := ""
	if summary.Region != nil {
		region = *summary.Region
	}
	log.Info().
		Int("matches_count", summary.MatchesCount).
		Float64("win_rate", summary.WinRate).
		Float64("avg_kda", summary.AvgKDA).
		Float64("avg_impact_score", summary.AvgImpactScore).
		Str("region", region).
		Msg("player summary stored")

	return s.finish(ctx, run, resolved(domain.IngestResult{
		Success:      true,
		Reason:       domain.ReasonOK,
		Message:      fmt.Sprintf("Successfully verified and stored data for %s#%s", player.GameName, player.TagLine),
		MatchesCount: summary.MatchesCount,
	}))
}

// persist issues all three upserts in order even if one fails, and reports
// the first failure.
func (s *IngestionService) persist(ctx context.Context, player *domain.Player, games []domain.GameStats, summary *domain.PlayerSummary) (string, error) {
	var (
		reason string
		errs   []error
	)
	fail := func(r string, err error) {
		if reason == "" {
			reason = r
		}
		errs = append(errs, err)
	}

	if err := s.players.Upsert(ctx, player); err != nil {
		fail(domain.ReasonPersistPlayerFailed, fmt.Errorf("upsert player: %w", err))
	}
	if err := s.matches.UpsertBatch(ctx, games); err != nil {
		fail(domain.ReasonPersistMatchesFailed, fmt.Errorf("upsert matches: %w", err))
	}
	if err := s.summaries.Upsert(ctx, summary); err != nil {
		fail(domain.ReasonPersistSummaryFailed, fmt.Errorf("upsert summary: %w", err))
	}
	return reason, errors.Join(errs...)
}

func (s *IngestionService) finish(ctx context.Context, run *domain.IngestionRun, result domain.IngestResult) domain.IngestResult {
	run.Success = result.Success
	run.Reason = result.Reason
	run.Message = result.Message
	run.MatchesCount = result.MatchesCount
	run.FinishedAt = time.Now()

	if err := s.runs.Record(ctx, run); err != nil {
		s.logger.Warn().Err(err).Str("reason", run.Reason).Msg("failed to record ingestion run")
	}
	s.metrics.ObserveIngestion(result.Reason, run.FinishedAt.Sub(run.StartedAt))

	event := s.logger.Info()
	if !result.Success {
		event = s.logger.Warn()
	}
	event.
		Str("run_id", run.ID).
		Str("handle", run.GameName+"#"+run.TagLine).
		Str("puuid", run.Puuid).
		Bool("success", result.Success).
		Str("reason", result.Reason).
		Int("matches_count", result.MatchesCount).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Msg("ingestion finished")
	return result
}

func insufficientMessage(minMatches int) string {
	return fmt.Sprintf("Player does not have at least %d valid matches. Please play some games first.", minMatches)
}
