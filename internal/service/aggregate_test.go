package service

import (
	"errors"
	"testing"

	"github.com/MahdiRahman4/CodeJam2025/internal/domain"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregate(t *testing.T) {
	player := &domain.Player{Puuid: "p-1", GameName: "Hide on bush", TagLine: "KR1"}

	Convey("Given three valid games", t, func() {
		games := []domain.GameStats{
			{Kills: 3, Deaths: 1, Assists: 3, KDA: 6, DamagePerMin: 600, GoldPerMin: 400, CSPerMin: 8, ImpactScore: 0.6, Damage: 18000, Gold: 12000, CS: 240, VisionScore: 30, Win: true},
			{Kills: 0, Deaths: 4, Assists: 4, KDA: 1, DamagePerMin: 300, GoldPerMin: 300, CSPerMin: 6, ImpactScore: 0.3, Damage: 6000, Gold: 6000, CS: 120, VisionScore: 10},
			{Kills: 6, Deaths: 0, Assists: 2, KDA: 8, DamagePerMin: 900, GoldPerMin: 500, CSPerMin: 10, ImpactScore: 0.9, Damage: 45000, Gold: 25000, CS: 500, VisionScore: 50, Win: true},
		}
		discovered := []string{"KR_100", "KR_101", "KR_102", "KR_103"}

		sum, err := Aggregate(player, games, discovered, 3)

		Convey("Then means are arithmetic over the sample", func() {
			So(err, ShouldBeNil)
			So(sum.MatchesCount, ShouldEqual, 3)
			So(sum.AvgKills, ShouldAlmostEqual, 3.0)
			So(sum.AvgDeaths, ShouldAlmostEqual, 5.0/3)
			So(sum.AvgAssists, ShouldAlmostEqual, 3.0)
			So(sum.AvgKDA, ShouldAlmostEqual, 5.0)
			So(sum.AvgDPM, ShouldAlmostEqual, 600.0)
			So(sum.AvgGPM, ShouldAlmostEqual, 400.0)
			So(sum.AvgCSPerMin, ShouldAlmostEqual, 8.0)
			So(sum.AvgImpactScore, ShouldAlmostEqual, 0.6)
		})

		Convey("Then raw totals are averaged separately from rates", func() {
			So(sum.AvgDamage, ShouldAlmostEqual, 23000.0)
			So(sum.AvgGold, ShouldAlmostEqual, 43000.0/3)
			So(sum.AvgCS, ShouldAlmostEqual, 860.0/3)
			So(sum.AvgVisionScore, ShouldAlmostEqual, 30.0)
		})

		Convey("Then win rate is a percentage", func() {
			So(sum.WinRate, ShouldAlmostEqual, 200.0/3)
		})

		Convey("Then identity and region come from the player and the first id", func() {
			So(sum.Puuid, ShouldEqual, "p-1")
			So(sum.GameName, ShouldEqual, "Hide on bush")
			So(*sum.Region, ShouldEqual, "KR")
		})
	})

	Convey("Given fewer games than required", t, func() {
		_, err := Aggregate(player, []domain.GameStats{{}, {}}, []string{"NA1_1"}, 3)

		Convey("Then no summary is produced", func() {
			So(errors.Is(err, ErrInsufficientHistory), ShouldBeTrue)
		})
	})

	Convey("Given no games and a zero threshold", t, func() {
		_, err := Aggregate(player, nil, nil, 0)

		Convey("Then the empty sample is still rejected", func() {
			So(errors.Is(err, ErrInsufficientHistory), ShouldBeTrue)
		})
	})
}

func TestRegionFromMatchID(t *testing.T) {
	Convey("The region is the text before the first underscore", t, func() {
		So(*RegionFromMatchID("NA1_4812345"), ShouldEqual, "NA1")
		So(*RegionFromMatchID("EUW1_1_2"), ShouldEqual, "EUW1")
		So(*RegionFromMatchID("nounderscore"), ShouldEqual, "nounderscore")
		So(RegionFromMatchID(""), ShouldBeNil)
	})
}
