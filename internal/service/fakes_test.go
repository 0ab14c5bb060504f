package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/MahdiRahman4/CodeJam2025/internal/api"
	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
)

var errUpstream = errors.New("upstream unavailable")

// fakeRiot serves canned responses keyed by region name and match id, and
// records what was asked for.
type fakeRiot struct {
	mu sync.Mutex

	account    *api.AccountResponse
	accountErr error

	regions []api.Region
	ids     map[string][]string
	idsErr  map[string]error
	matches map[string]*api.MatchResponse

	idCalls    []string
	matchCalls []string
}

func newFakeRiot(regionNames ...string) *fakeRiot {
	f := &fakeRiot{
		ids:     map[string][]string{},
		idsErr:  map[string]error{},
		matches: map[string]*api.MatchResponse{},
	}
	for _, name := range regionNames {
		f.regions = append(f.regions, api.Region{Name: name, BaseURL: "http://" + name + ".test"})
	}
	return f
}

func (f *fakeRiot) GetAccount(ctx context.Context, gameName, tagLine string) (*api.AccountResponse, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	if f.account == nil {
		return nil, &api.APIError{Status: 404, URL: "account"}
	}
	acc := *f.account
	return &acc, nil
}

func (f *fakeRiot) GetMatchIDs(ctx context.Context, region api.Region, puuid string, count int) ([]string, error) {
	f.mu.Lock()
	f.idCalls = append(f.idCalls, region.Name)
	f.mu.Unlock()

	if err := f.idsErr[region.Name]; err != nil {
		return nil, err
	}
	ids := f.ids[region.Name]
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

func (f *fakeRiot) GetMatch(ctx context.Context, region api.Region, matchID string) (*api.MatchResponse, error) {
	f.mu.Lock()
	f.matchCalls = append(f.matchCalls, matchID)
	f.mu.Unlock()

	m, ok := f.matches[matchID]
	if !ok {
		return nil, &api.APIError{Status: 404, URL: matchID}
	}
	return m, nil
}

func (f *fakeRiot) Regions() []api.Region {
	return f.regions
}

func matchIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = prefix + "_" + string(rune('a'+i))
	}
	return ids
}

func duration(secs int64) *int64 { return &secs }

// newMatch builds a match where me plays on team 100 next to teammates.
// Any participant with TeamID 200 counts as an enemy.
func newMatch(secs int64, me api.Participant, others ...api.Participant) *api.MatchResponse {
	if me.TeamID == 0 {
		me.TeamID = 100
	}
	m := &api.MatchResponse{}
	if secs != 0 {
		m.Info.GameDuration = duration(secs)
	}
	m.Info.GameStartTimestamp = 1_700_000_000_000
	m.Info.Participants = append([]api.Participant{me}, others...)
	return m
}

type memPlayers struct {
	err  error
	rows map[string]domain.Player
}

func (s *memPlayers) Upsert(ctx context.Context, p *domain.Player) error {
	if s.err != nil {
		return s.err
	}
	if s.rows == nil {
		s.rows = map[string]domain.Player{}
	}
	s.rows[p.Puuid] = *p
	return nil
}

func (s *memPlayers) Get(ctx context.Context, puuid string) (*domain.Player, error) {
	p, ok := s.rows[puuid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *memPlayers) GetByName(ctx context.Context, gameName, tagLine string) (*domain.Player, error) {
	for _, p := range s.rows {
		if strings.EqualFold(p.GameName, gameName) && strings.EqualFold(p.TagLine, tagLine) {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memMatches struct {
	err  error
	rows map[string]domain.GameStats
}

func (s *memMatches) UpsertBatch(ctx context.Context, games []domain.GameStats) error {
	if s.err != nil {
		return s.err
	}
	if s.rows == nil {
		s.rows = map[string]domain.GameStats{}
	}
	for _, g := range games {
		s.rows[g.MatchID+"/"+g.Puuid] = g
	}
	return nil
}

func (s *memMatches) GetByPuuid(ctx context.Context, puuid string, limit int) ([]domain.GameStats, error) {
	var out []domain.GameStats
	for _, g := range s.rows {
		if g.Puuid == puuid && len(out) < limit {
			out = append(out, g)
		}
	}
	return out, nil
}

type memSummaries struct {
	err  error
	rows map[string]domain.PlayerSummary

	orderBy string
	limit   int
}

func (s *memSummaries) Upsert(ctx context.Context, sum *domain.PlayerSummary) error {
	if s.err != nil {
		return s.err
	}
	if s.rows == nil {
		s.rows = map[string]domain.PlayerSummary{}
	}
	s.rows[sum.Puuid] = *sum
	return nil
}

func (s *memSummaries) Get(ctx context.Context, puuid string) (*domain.PlayerSummary, error) {
	sum, ok := s.rows[puuid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sum, nil
}

func (s *memSummaries) Top(ctx context.Context, orderBy string, limit int) ([]domain.PlayerSummary, error) {
	s.orderBy = orderBy
	s.limit = limit
	return []domain.PlayerSummary{}, nil
}

type memRuns struct {
	runs []domain.IngestionRun
}

func (s *memRuns) Record(ctx context.Context, run *domain.IngestionRun) error {
	run.ID = "run-" + string(rune('0'+len(s.runs)))
	s.runs = append(s.runs, *run)
	return nil
}

func (s *memRuns) Latest(ctx context.Context, puuid string, limit int) ([]domain.IngestionRun, error) {
	var out []domain.IngestionRun
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if s.runs[i].Puuid == puuid {
			out = append(out, s.runs[i])
		}
	}
	return out, nil
}
