package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
	"github.com/MahdiRahman4/CodeJam2025/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const TrackerServiceName = "tracker.v1.TrackerService"

const (
	TrackerServicePath        = "/" + TrackerServiceName
	IngestProcedure           = TrackerServicePath + "/Ingest"
	LeaderboardProcedure      = TrackerServicePath + "/Leaderboard"
	CompareRivalsProcedure    = TrackerServicePath + "/CompareRivals"
	LookupPlayerProcedure     = TrackerServicePath + "/LookupPlayer"
	GetPlayerSummaryProcedure = TrackerServicePath + "/GetPlayerSummary"
	GetPlayerRunsProcedure    = TrackerServicePath + "/GetPlayerRuns"
)

// jsonCodec lets connect carry the plain Go request and response structs
// below. It replaces the protobuf-backed "json" codec.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

type LeaderboardRequest struct {
	Sort  string `json:"sort"`
	Limit int    `json:"limit"`
}

type LeaderboardResponse struct {
	Sort    string                 `json:"sort"`
	Players []domain.PlayerSummary `json:"players"`
}

type CompareRivalsRequest struct {
	Puuid      string `json:"puuid"`
	RivalPuuid string `json:"rivalPuuid"`
}

type LookupPlayerRequest struct {
	Handle string `json:"handle"`
}

type PlayerRequest struct {
	Puuid string `json:"puuid"`
}

type PlayerRunsResponse struct {
	Runs []domain.IngestionRun `json:"runs"`
}

// NewRPCHandler serves the tracker procedures over the connect protocol.
// The returned path is the mount prefix.
func NewRPCHandler(s *TrackerServer) (string, http.Handler) {
	opt := connect.WithCodec(jsonCodec{})

	mux := http.NewServeMux()
	mux.Handle(IngestProcedure, connect.NewUnaryHandler(IngestProcedure, s.IngestRPC, opt))
	mux.Handle(LeaderboardProcedure, connect.NewUnaryHandler(LeaderboardProcedure, s.LeaderboardRPC, opt))
	mux.Handle(CompareRivalsProcedure, connect.NewUnaryHandler(CompareRivalsProcedure, s.CompareRivalsRPC, opt))
	mux.Handle(LookupPlayerProcedure, connect.NewUnaryHandler(LookupPlayerProcedure, s.LookupPlayerRPC, opt))
	mux.Handle(GetPlayerRunsProcedure, connect.NewUnaryHandler(GetPlayerRunsProcedure, s.GetPlayerRunsRPC, opt))
	mux.Handle(GetPlayerSummaryProcedure, connect.NewUnaryHandler(GetPlayerSummaryProcedure, s.GetPlayerSummaryRPC, opt))
	return TrackerServicePath, mux
}

func (s *TrackerServer) IngestRPC(ctx context.Context, req *connect.Request[IngestRequest]) (*connect.Response[domain.IngestResult], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	handle, err := req.Msg.handle()
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	result := s.ingester.Ingest(context.WithoutCancel(ctx), handle.GameName, handle.TagLine, req.Msg.MinMatches)
	zerolog.Ctx(ctx).Info().
		Str("handle", handle.String()).
		Bool("success", result.Success).
		Str("reason", result.Reason).
		Msg("ingest rpc served")
	return connect.NewResponse(&result), nil
}

func (s *TrackerServer) LeaderboardRPC(ctx context.Context, req *connect.Request[LeaderboardRequest]) (*connect.Response[LeaderboardResponse], error) {
	rows, err := s.stats.Top(ctx, req.Msg.Sort, req.Msg.Limit)
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return connect.NewResponse(&LeaderboardResponse{Sort: sortOrDefault(req.Msg.Sort), Players: rows}), nil
}

func (s *TrackerServer) CompareRivalsRPC(ctx context.Context, req *connect.Request[CompareRivalsRequest]) (*connect.Response[domain.RivalComparison], error) {
	if req.Msg.Puuid == "" || req.Msg.RivalPuuid == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("puuid and rivalPuuid are required"))
	}
	cmp, err := s.rivals.Compare(ctx, req.Msg.Puuid, req.Msg.RivalPuuid)
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return connect.NewResponse(cmp), nil
}

func (s *TrackerServer) LookupPlayerRPC(ctx context.Context, req *connect.Request[LookupPlayerRequest]) (*connect.Response[domain.Player], error) {
	handle, err := domain.ParseHandle(req.Msg.Handle)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	player, err := s.players.Lookup(ctx, handle)
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return connect.NewResponse(player), nil
}

func (s *TrackerServer) GetPlayerSummaryRPC(ctx context.Context, req *connect.Request[PlayerRequest]) (*connect.Response[domain.PlayerSummary], error) {
	summary, err := s.stats.Summary(ctx, req.Msg.Puuid)
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return connect.NewResponse(summary), nil
}

func (s *TrackerServer) GetPlayerRunsRPC(ctx context.Context, req *connect.Request[PlayerRequest]) (*connect.Response[PlayerRunsResponse], error) {
	runs, err := s.stats.Runs(ctx, req.Msg.Puuid)
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return connect.NewResponse(&PlayerRunsResponse{Runs: runs}), nil
}

func (s *TrackerServer) rpcError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, service.ErrInvalidSort):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("rpc failed")
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}
