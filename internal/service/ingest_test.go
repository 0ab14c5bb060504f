package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/MahdiRahman4/CodeJam2025/internal/api"
	"github.com/MahdiRahman4/CodeJam2025/internal/config"
	"github.com/MahdiRahman4/CodeJam2025/internal/database"
	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
	"github.com/MahdiRahman4/CodeJam2025/internal/metrics"
	"github.com/MahdiRahman4/CodeJam2025/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

type stores struct {
	players   *memPlayers
	matches   *memMatches
	summaries *memSummaries
	runs      *memRuns
}

func newStores() *stores {
	return &stores{players: &memPlayers{}, matches: &memMatches{}, summaries: &memSummaries{}, runs: &memRuns{}}
}

func newTestIngestion(riot RiotAPI, s *stores) *IngestionService {
	cfg := &config.Config{MinMatches: 5, MatchCount: 5}
	return NewIngestionService(cfg, riot, s.players, s.matches, s.summaries, s.runs, metrics.New(prometheus.NewRegistry()), zerolog.Nop())
}

// hideOnBush returns an upstream with five 30 minute games, the first three
// won. Per game i (0..4) the player has:
//
//	kills 2,4,6,8,10  deaths 1,1,2,2,0  assists 0,2,2,0,5
//	damage 15000+3000i  gold 9000+1500i  cs 180+30i  vision 20+5i
func hideOnBush() *fakeRiot {
	riot := newFakeRiot("americas", "europe")
	riot.account = &api.AccountResponse{Puuid: "hob-puuid", GameName: "Hide on bush", TagLine: "NA1"}

	kills := []int{2, 4, 6, 8, 10}
	deaths := []int{1, 1, 2, 2, 0}
	assists := []int{0, 2, 2, 0, 5}

	ids := matchIDs("NA1", 5)
	riot.ids["americas"] = ids
	for i, id := range ids {
		me := api.Participant{
			Puuid:                       "hob-puuid",
			ChampionName:                "Ahri",
			Win:                         i < 3,
			Kills:                       kills[i],
			Deaths:                      deaths[i],
			Assists:                     assists[i],
			TotalDamageDealtToChampions: 15000 + 3000*i,
			GoldEarned:                  9000 + 1500*i,
			TotalMinionsKilled:          150 + 30*i,
			NeutralMinionsKilled:        30,
			VisionScore:                 20 + 5*i,
			TeamPosition:                "MIDDLE",
		}
		mate := api.Participant{Puuid: "mate", TeamID: 100, Kills: 10, TotalDamageDealtToChampions: 30000}
		enemy := api.Participant{Puuid: "enemy", TeamID: 200, Kills: 15, TotalDamageDealtToChampions: 60000}
		riot.matches[id] = newMatch(1800, me, mate, enemy)
	}
	return riot
}

func TestIngestThresholds(t *testing.T) {
	ctx := context.Background()

	Convey("Given discovery that returns 4 ids for a minimum of 5", t, func() {
		riot := hideOnBush()
		riot.ids["americas"] = matchIDs("NA1", 4)
		s := newStores()

		result := newTestIngestion(riot, s).Ingest(ctx, "Hideonbush", "NA1", 5)

		Convey("Then the run aborts before any match detail is fetched", func() {
			So(result.Success, ShouldBeFalse)
			So(result.Reason, ShouldEqual, domain.ReasonInsufficientDiscovered)
			So(result.MatchesCount, ShouldEqual, 4)
			So(result.Message, ShouldContainSubstring, "at least 5 valid matches")
			So(riot.matchCalls, ShouldBeEmpty)
			So(s.summaries.rows, ShouldBeEmpty)
		})

		Convey("Then the partial region was only a fallback after every region was tried", func() {
			So(riot.idCalls, ShouldResemble, []string{"americas", "europe"})
		})
	})

	Convey("Given five ids where two cannot be analyzed", t, func() {
		riot := hideOnBush()
		ids := riot.ids["americas"]
		riot.matches[ids[1]].Info.GameDuration = nil
		riot.matches[ids[3]].Info.Participants = riot.matches[ids[3]].Info.Participants[1:]
		s := newStores()

		result := newTestIngestion(riot, s).Ingest(ctx, "Hideonbush", "NA1", 0)

		Convey("Then the second threshold aborts and nothing is persisted", func() {
			So(len(riot.matchCalls), ShouldEqual, 5)
			So(result.Success, ShouldBeFalse)
			So(result.Reason, ShouldEqual, domain.ReasonInsufficientValid)
			So(result.MatchesCount, ShouldEqual, 3)
			So(s.players.rows, ShouldBeEmpty)
			So(s.matches.rows, ShouldBeEmpty)
			So(s.summaries.rows, ShouldBeEmpty)
		})

		Convey("Then a lower explicit minimum persists only the analyzable matches", func() {
			s := newStores()
			result := newTestIngestion(riot, s).Ingest(ctx, "Hideonbush", "NA1", 3)
			So(result.Success, ShouldBeTrue)
			So(result.MatchesCount, ShouldEqual, 3)

			So(s.matches.rows, ShouldHaveLength, 3)
			puuid := riot.account.Puuid
			for _, i := range []int{0, 2, 4} {
				So(s.matches.rows, ShouldContainKey, ids[i]+"/"+puuid)
			}
			So(s.matches.rows, ShouldNotContainKey, ids[1]+"/"+puuid)
			So(s.matches.rows, ShouldNotContainKey, ids[3]+"/"+puuid)
			So(s.summaries.rows[puuid].MatchesCount, ShouldEqual, 3)
		})
	})
}

func TestIngestAborts(t *testing.T) {
	ctx := context.Background()

	Convey("Given an account that cannot be resolved", t, func() {
		riot := hideOnBush()
		riot.account = nil
		s := newStores()

		result := newTestIngestion(riot, s).Ingest(ctx, "nobody", "0000", 5)

		Convey("Then the run fails without touching match endpoints", func() {
			So(result.Success, ShouldBeFalse)
			So(result.Reason, ShouldEqual, domain.ReasonAccountNotFound)
			So(result.ResolvedGameName, ShouldBeEmpty)
			So(riot.idCalls, ShouldBeEmpty)
		})

		Convey("Then an audit row is still recorded", func() {
			So(len(s.runs.runs), ShouldEqual, 1)
			So(s.runs.runs[0].Reason, ShouldEqual, domain.ReasonAccountNotFound)
			So(s.runs.runs[0].GameName, ShouldEqual, "nobody")
		})
	})

	Convey("Given a player with no matches anywhere", t, func() {
		riot := hideOnBush()
		riot.ids = map[string][]string{}
		riot.idsErr["europe"] = errUpstream

		result := newTestIngestion(riot, newStores()).Ingest(ctx, "Hideonbush", "NA1", 5)

		Convey("Then the run fails with the canonical identity attached", func() {
			So(result.Success, ShouldBeFalse)
			So(result.Reason, ShouldEqual, domain.ReasonNoMatches)
			So(result.ResolvedGameName, ShouldEqual, "Hide on bush")
			So(result.ResolvedTagLine, ShouldEqual, "NA1")
		})
	})
}

func TestIngestPartialPersistence(t *testing.T) {
	Convey("Given a match store that rejects writes", t, func() {
		riot := hideOnBush()
		s := newStores()
		s.matches.err = errors.New("disk I/O error")

		result := newTestIngestion(riot, s).Ingest(context.Background(), "Hideonbush", "NA1", 5)

		Convey("Then the run reports the failing step", func() {
			So(result.Success, ShouldBeFalse)
			So(result.Reason, ShouldEqual, domain.ReasonPersistMatchesFailed)
			So(result.Message, ShouldContainSubstring, "disk I/O error")
		})

		Convey("Then the other upserts stay committed", func() {
			So(s.players.rows, ShouldContainKey, "hob-puuid")
			So(s.summaries.rows, ShouldContainKey, "hob-puuid")
			So(s.runs.runs[0].Success, ShouldBeFalse)
		})
	})

	Convey("Given player and summary stores that both fail", t, func() {
		s := newStores()
		s.players.err = errors.New("locked")
		s.summaries.err = errors.New("full")

		result := newTestIngestion(hideOnBush(), s).Ingest(context.Background(), "Hideonbush", "NA1", 5)

		Convey("Then the first failure names the reason", func() {
			So(result.Reason, ShouldEqual, domain.ReasonPersistPlayerFailed)
			So(len(s.matches.rows), ShouldEqual, 5)
		})
	})
}

func TestIngestEndToEnd(t *testing.T) {
	Convey("Given Hideonbush#NA1 with five valid games and a real store", t, func() {
		ctx := context.Background()
		db, err := database.Open(filepath.Join(t.TempDir(), "tracker.db"), zerolog.Nop())
		So(err, ShouldBeNil)
		Reset(func() { db.Close() })

		players := repository.NewPlayerRepository(db, zerolog.Nop())
		matches := repository.NewMatchRepository(db, zerolog.Nop())
		summaries := repository.NewSummaryRepository(db, zerolog.Nop())
		runs := repository.NewRunRepository(db, zerolog.Nop())

		cfg := &config.Config{MinMatches: 5, MatchCount: 5}
		svc := NewIngestionService(cfg, hideOnBush(), players, matches, summaries, runs, metrics.New(prometheus.NewRegistry()), zerolog.Nop())

		result := svc.Ingest(ctx, "Hideonbush", "NA1", 5)

		Convey("Then the run succeeds under the canonical name", func() {
			So(result.Success, ShouldBeTrue)
			So(result.Reason, ShouldEqual, domain.ReasonOK)
			So(result.MatchesCount, ShouldEqual, 5)
			So(result.ResolvedGameName, ShouldEqual, "Hide on bush")
			So(result.Message, ShouldEqual, "Successfully verified and stored data for Hide on bush#NA1")
		})

		Convey("Then the stored summary holds the hand-computed means", func() {
			sum, err := summaries.Get(ctx, "hob-puuid")
			So(err, ShouldBeNil)
			So(sum.MatchesCount, ShouldEqual, 5)
			So(sum.WinRate, ShouldAlmostEqual, 60.0)
			So(*sum.Region, ShouldEqual, "NA1")
			So(sum.GameName, ShouldEqual, "Hide on bush")

			So(sum.AvgKills, ShouldAlmostEqual, 6.0)
			So(sum.AvgDeaths, ShouldAlmostEqual, 1.2)
			So(sum.AvgAssists, ShouldAlmostEqual, 1.8)
			So(sum.AvgKDA, ShouldAlmostEqual, 6.2)

			So(sum.AvgDamage, ShouldAlmostEqual, 21000.0)
			So(sum.AvgDPM, ShouldAlmostEqual, 700.0)
			So(sum.AvgGold, ShouldAlmostEqual, 12000.0)
			So(sum.AvgGPM, ShouldAlmostEqual, 400.0)
			So(sum.AvgCS, ShouldAlmostEqual, 240.0)
			So(sum.AvgCSPerMin, ShouldAlmostEqual, 8.0)
			So(sum.AvgVisionScore, ShouldAlmostEqual, 30.0)

			games, err := matches.GetByPuuid(ctx, "hob-puuid", 10)
			So(err, ShouldBeNil)
			So(len(games), ShouldEqual, 5)
			var impact float64
			for _, g := range games {
				impact += g.ImpactScore
			}
			So(sum.AvgImpactScore, ShouldAlmostEqual, impact/5)
		})

		Convey("When the same upstream data is ingested again", func() {
			first, err := summaries.Get(ctx, "hob-puuid")
			So(err, ShouldBeNil)

			again := svc.Ingest(ctx, "hideonbush", "na1", 5)
			So(again.Success, ShouldBeTrue)

			Convey("Then there is still one summary row with unchanged values", func() {
				rows, err := summaries.Top(ctx, "avg_kda", 10)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0].AvgKDA, ShouldEqual, first.AvgKDA)
				So(rows[0].AvgImpactScore, ShouldEqual, first.AvgImpactScore)
				So(rows[0].CreatedAt.Equal(first.CreatedAt), ShouldBeTrue)

				games, err := matches.GetByPuuid(ctx, "hob-puuid", 10)
				So(err, ShouldBeNil)
				So(len(games), ShouldEqual, 5)
			})

			Convey("Then both attempts are in the audit log", func() {
				history, err := runs.Latest(ctx, "hob-puuid", 10)
				So(err, ShouldBeNil)
				So(len(history), ShouldEqual, 2)
				So(history[0].Success, ShouldBeTrue)
			})
		})
	})
}
