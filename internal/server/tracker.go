package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
	"github.com/MahdiRahman4/CodeJam2025/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Ingester interface {
	Ingest(ctx context.Context, gameName, tagLine string, minMatches int) domain.IngestResult
}

type StatsReader interface {
	Top(ctx context.Context, sort string, limit int) ([]domain.PlayerSummary, error)
	Summary(ctx context.Context, puuid string) (*domain.PlayerSummary, error)
	Matches(ctx context.Context, puuid string) ([]domain.GameStats, error)
	Runs(ctx context.Context, puuid string) ([]domain.IngestionRun, error)
}

type RivalComparer interface {
	Compare(ctx context.Context, puuid, rivalPuuid string) (*domain.RivalComparison, error)
}

type PlayerFinder interface {
	Player(ctx context.Context, puuid string) (*domain.Player, error)
	Lookup(ctx context.Context, handle domain.PlayerHandle) (*domain.Player, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type TrackerServer struct {
	ingester Ingester
	stats    StatsReader
	rivals   RivalComparer
	players  PlayerFinder
	db       Pinger
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewTrackerServer(ingester Ingester, stats StatsReader, rivals RivalComparer, players PlayerFinder, db Pinger, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{
		ingester: ingester,
		stats:    stats,
		rivals:   rivals,
		players:  players,
		db:       db,
		validate: validator.New(),
		logger:   logger,
	}
}

// IngestRequest accepts either a combined handle or the two parts.
type IngestRequest struct {
	Handle     string `json:"handle" validate:"omitempty,max=80"`
	GameName   string `json:"gameName" validate:"omitempty,max=64"`
	TagLine    string `json:"tagLine" validate:"omitempty,max=16"`
	MinMatches int    `json:"minMatches" validate:"gte=0,lte=100"`
}

func (req IngestRequest) handle() (domain.PlayerHandle, error) {
	if req.Handle != "" {
		return domain.ParseHandle(req.Handle)
	}
	if req.GameName == "" || req.TagLine == "" {
		return domain.PlayerHandle{}, fmt.Errorf("%w: gameName and tagLine are required", domain.ErrInvalidHandle)
	}
	return domain.PlayerHandle{GameName: req.GameName, TagLine: req.TagLine}, nil
}

// Ingest runs the pipeline for one handle. The run is detached from the
// request context so a disconnecting client does not abort it halfway.
func (s *TrackerServer) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	handle, err := req.handle()
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result := s.ingester.Ingest(context.WithoutCancel(r.Context()), handle.GameName, handle.TagLine, req.MinMatches)

	zerolog.Ctx(r.Context()).Info().
		Str("handle", handle.String()).
		Bool("success", result.Success).
		Str("reason", result.Reason).
		Dur("took", time.Since(start)).
		Msg("ingest request served")
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *TrackerServer) Leaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	rows, err := s.stats.Top(r.Context(), q.Get("sort"), limit)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sort":    sortOrDefault(q.Get("sort")),
		"players": rows,
	})
}

func (s *TrackerServer) Player(w http.ResponseWriter, r *http.Request) {
	player, err := s.players.Player(r.Context(), chi.URLParam(r, "puuid"))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, player)
}

// PlayerByHandle resolves an already ingested handle without calling upstream.
func (s *TrackerServer) PlayerByHandle(w http.ResponseWriter, r *http.Request) {
	handle := domain.PlayerHandle{
		GameName: strings.TrimSpace(chi.URLParam(r, "gameName")),
		TagLine:  strings.TrimSpace(chi.URLParam(r, "tagLine")),
	}
	if handle.GameName == "" || handle.TagLine == "" {
		s.errorResponse(w, http.StatusBadRequest, domain.ErrInvalidHandle.Error())
		return
	}

	player, err := s.players.Lookup(r.Context(), handle)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, player)
}

func (s *TrackerServer) PlayerSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.stats.Summary(r.Context(), chi.URLParam(r, "puuid"))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}

func (s *TrackerServer) PlayerMatches(w http.ResponseWriter, r *http.Request) {
	games, err := s.stats.Matches(r.Context(), chi.URLParam(r, "puuid"))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"matches": games})
}

func (s *TrackerServer) PlayerRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.stats.Runs(r.Context(), chi.URLParam(r, "puuid"))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *TrackerServer) Rivals(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.rivals.Compare(r.Context(), chi.URLParam(r, "puuid"), chi.URLParam(r, "rivalPuuid"))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cmp)
}

func (s *TrackerServer) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("database ping failed")
		status, code = "degraded", http.StatusServiceUnavailable
	}
	s.jsonResponse(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}

func (s *TrackerServer) failure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.errorResponse(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidSort):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *TrackerServer) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write response")
	}
}

func (s *TrackerServer) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

func sortOrDefault(sort string) string {
	if sort == "" {
		return service.DefaultLeaderboardSort
	}
	return sort
}
