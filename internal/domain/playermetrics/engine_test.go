package playermetrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/clutchgolf/engine/internal/adapters/repository"
	"github.com/clutchgolf/engine/internal/config"
	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/internal/domain/playermetrics"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEngine(store *repository.MemStore) *playermetrics.Engine {
	cfg := config.New(context.Background())
	return playermetrics.New(store, cfg.Player,
		playermetrics.WithClock(func() time.Time { return fixedNow }))
}

func f(v float64) *float64 { return &v }

// fullPerformance builds a performance with every SG component populated,
// started exactly weeksAgo weeks before the fixed clock.
func fullPerformance(playerID, tournamentID string, weeksAgo int, offTee, approach, around, putting, total float64, rounds int) model.PerformanceRecord {
	scores := make([]int, rounds)
	for i := range scores {
		scores[i] = 71
	}
	return model.PerformanceRecord{
		PlayerID:      playerID,
		TournamentID:  tournamentID,
		EventType:     model.EventStandard,
		StartDate:     fixedNow.Add(-time.Duration(weeksAgo) * 7 * 24 * time.Hour),
		SGOffTee:      f(offTee),
		SGApproach:    f(approach),
		SGAroundGreen: f(around),
		SGPutting:     f(putting),
		SGTotal:       f(total),
		RoundScores:   scores,
		Status:        model.StatusActive,
	}
}

func TestCPI(t *testing.T) {
	Convey("Given a player with exactly 4 qualifying events in neutral fields", t, func() {
		store := repository.NewMemStore()
		store.AddPerformance(fullPerformance("p1", "t1", 1, 0.5, 0.8, 0.2, 0.3, 1.8, 4))
		store.AddPerformance(fullPerformance("p1", "t2", 2, 0.2, 0.4, 0.1, 0.1, 0.8, 4))
		store.AddPerformance(fullPerformance("p1", "t3", 3, -0.1, 0.3, 0.0, 0.2, 0.4, 2))
		store.AddPerformance(fullPerformance("p1", "t4", 4, 0.6, 0.5, 0.3, -0.2, 1.2, 4))

		// Normalization population: mean 0.24, stddev 0.57706.
		store.AddPlayer(model.Player{ID: "p1", AvgSGTotal: 0.9, Active: true})
		store.AddPlayer(model.Player{ID: "p2", AvgSGTotal: 0.0, Active: true})
		store.AddPlayer(model.Player{ID: "p3", AvgSGTotal: 0.3, Active: true})
		store.AddPlayer(model.Player{ID: "p4", AvgSGTotal: -0.6, Active: true})
		store.AddPlayer(model.Player{ID: "p5", AvgSGTotal: 0.6, Active: true})

		engine := newEngine(store)

		Convey("When computing the CPI", func() {
			cpi, breakdown, err := engine.CPI(context.Background(), "p1", playermetrics.NewFieldStrengthCache())
			So(err, ShouldBeNil)
			So(cpi, ShouldNotBeNil)
			So(breakdown, ShouldNotBeNil)

			Convey("Then every event ran through a neutral field multiplier", func() {
				So(breakdown.EventCount, ShouldEqual, 4)
				for _, ev := range breakdown.Events {
					So(ev.FieldStrength, ShouldEqual, 0.5)
					So(ev.FieldMultiplier, ShouldAlmostEqual, 1.0, 1e-9)
				}
			})

			Convey("Then the raw sum matches the hand computation", func() {
				// 0.92^1*0.489 + 0.92^2*0.219 + 0.92^3*0.101 + 0.92^4*0.341
				So(breakdown.RawCPI, ShouldAlmostEqual, 0.958179, 0.001)
			})

			Convey("Then the z-score normalizes against the active population", func() {
				So(breakdown.PopulationMean, ShouldAlmostEqual, 0.24, 1e-9)
				So(breakdown.PopulationStdDev, ShouldAlmostEqual, 0.577062, 0.001)
				So(breakdown.ZScore, ShouldAlmostEqual, 0.414322, 0.001)
				So(*cpi, ShouldAlmostEqual, 0.414322, 0.001)
			})

			Convey("Then the CPI honors its clamping range", func() {
				So(*cpi, ShouldBeBetweenOrEqual, -3, 3)
			})
		})

		Convey("When one event loses an SG component", func() {
			store2 := repository.NewMemStore()
			store2.AddPerformance(fullPerformance("p9", "t1", 1, 0.5, 0.8, 0.2, 0.3, 1.8, 4))
			store2.AddPerformance(fullPerformance("p9", "t2", 2, 0.2, 0.4, 0.1, 0.1, 0.8, 4))
			broken := fullPerformance("p9", "t3", 3, 0, 0.3, 0, 0.2, 0.4, 2)
			broken.SGOffTee = nil
			store2.AddPerformance(broken)
			store2.AddPerformance(fullPerformance("p9", "t4", 4, 0.6, 0.5, 0.3, -0.2, 1.2, 4))

			cpi, breakdown, err := newEngine(store2).CPI(context.Background(), "p9", playermetrics.NewFieldStrengthCache())

			Convey("Then only 3 events qualify and the CPI is null", func() {
				So(err, ShouldBeNil)
				So(cpi, ShouldBeNil)
				So(breakdown, ShouldBeNil)
			})
		})
	})
}

func TestFormScore(t *testing.T) {
	Convey("Given a player with two completed events", t, func() {
		store := repository.NewMemStore()

		// One week ago, standard field: player tops a four-man sample.
		store.AddPerformance(fullPerformance("f1", "ta", 1, 0, 0, 0, 0, 2.0, 4))
		store.AddPerformance(fullPerformance("x1", "ta", 1, 0, 0, 0, 0, 1.0, 4))
		store.AddPerformance(fullPerformance("x2", "ta", 1, 0, 0, 0, 0, 0.0, 4))
		store.AddPerformance(fullPerformance("x3", "ta", 1, 0, 0, 0, 0, -1.0, 4))

		// Two weeks ago, a major: middle of a three-man sample.
		major := fullPerformance("f1", "tb", 2, 0, 0, 0, 0, 0.5, 4)
		major.EventType = model.EventMajor
		store.AddPerformance(major)
		store.AddPerformance(fullPerformance("y1", "tb", 2, 0, 0, 0, 0, 1.5, 4))
		store.AddPerformance(fullPerformance("y2", "tb", 2, 0, 0, 0, 0, -0.5, 4))

		engine := newEngine(store)

		Convey("When computing the form score", func() {
			form, breakdown, err := engine.FormScore(context.Background(), "f1", playermetrics.NewFieldStrengthCache())
			So(err, ShouldBeNil)
			So(form, ShouldNotBeNil)
			So(breakdown, ShouldNotBeNil)

			Convey("Then the recency weights renormalize over two events", func() {
				So(len(breakdown.Events), ShouldEqual, 2)
				So(breakdown.Events[0].Weight, ShouldAlmostEqual, 0.40/0.65, 1e-9)
				So(breakdown.Events[1].Weight, ShouldAlmostEqual, 0.25/0.65, 1e-9)
			})

			Convey("Then the major gets its event multiplier", func() {
				So(breakdown.Events[0].EventMultiplier, ShouldEqual, 1.0)
				So(breakdown.Events[1].EventMultiplier, ShouldEqual, 1.15)
			})

			Convey("Then the weighted percentiles match the hand computation", func() {
				// 0.6154*0.75 + 0.3846*(1/3*1.15)
				So(breakdown.Events[0].BasePercentile, ShouldAlmostEqual, 0.75, 1e-9)
				So(breakdown.Events[1].BasePercentile, ShouldAlmostEqual, 1.0/3, 1e-9)
				So(*form, ShouldAlmostEqual, 60.897436, 0.001)
			})

			Convey("Then the score stays inside [0,100]", func() {
				So(*form, ShouldBeBetweenOrEqual, 0, 100)
			})
		})

		Convey("When the player has a single completed event", func() {
			solo := repository.NewMemStore()
			solo.AddPerformance(fullPerformance("f2", "ta", 1, 0, 0, 0, 0, 1.0, 4))

			form, breakdown, err := newEngine(solo).FormScore(context.Background(), "f2", playermetrics.NewFieldStrengthCache())

			Convey("Then the form score is null", func() {
				So(err, ShouldBeNil)
				So(form, ShouldBeNil)
				So(breakdown, ShouldBeNil)
			})
		})

		Convey("When a run of withdrawals precedes the completed events", func() {
			wd := repository.NewMemStore()
			for i, id := range []string{"w1", "w2", "w3", "w4", "w5"} {
				p := fullPerformance("f4", id, i+1, 0, 0, 0, 0, 0.5, 1)
				p.Status = model.StatusWithdrawn
				wd.AddPerformance(p)
			}
			wd.AddPerformance(fullPerformance("f4", "ca", 6, 0, 0, 0, 0, 1.2, 4))
			wd.AddPerformance(fullPerformance("f4", "cb", 7, 0, 0, 0, 0, 0.4, 4))
			wd.AddPerformance(fullPerformance("f4", "cc", 8, 0, 0, 0, 0, -0.3, 4))
			wd.AddPerformance(fullPerformance("f4", "cd", 9, 0, 0, 0, 0, 0.9, 4))

			form, breakdown, err := newEngine(wd).FormScore(context.Background(), "f4", playermetrics.NewFieldStrengthCache())
			So(err, ShouldBeNil)

			Convey("Then the four completed events still score", func() {
				So(form, ShouldNotBeNil)
				So(breakdown, ShouldNotBeNil)
				So(len(breakdown.Events), ShouldEqual, 4)
				So(breakdown.Events[0].TournamentID, ShouldEqual, "ca")
				So(breakdown.Events[3].TournamentID, ShouldEqual, "cd")
			})
		})

		Convey("When an event was a withdrawal", func() {
			wd := repository.NewMemStore()
			wd.AddPerformance(fullPerformance("f3", "ta", 1, 0, 0, 0, 0, 1.0, 4))
			withdrawn := fullPerformance("f3", "tb", 2, 0, 0, 0, 0, 0.5, 1)
			withdrawn.Status = model.StatusWithdrawn
			wd.AddPerformance(withdrawn)

			form, _, err := newEngine(wd).FormScore(context.Background(), "f3", playermetrics.NewFieldStrengthCache())

			Convey("Then it does not count toward the minimum", func() {
				So(err, ShouldBeNil)
				So(form, ShouldBeNil)
			})
		})
	})
}

func TestComputeAll(t *testing.T) {
	Convey("Given a player with CPI and form data only", t, func() {
		store := repository.NewMemStore()
		store.AddPerformance(fullPerformance("p1", "t1", 1, 0.5, 0.8, 0.2, 0.3, 1.8, 4))
		store.AddPerformance(fullPerformance("p1", "t2", 2, 0.2, 0.4, 0.1, 0.1, 0.8, 4))
		store.AddPerformance(fullPerformance("p1", "t3", 3, -0.1, 0.3, 0.0, 0.2, 0.4, 2))
		store.AddPerformance(fullPerformance("p1", "t4", 4, 0.6, 0.5, 0.3, -0.2, 1.2, 4))
		store.AddPlayer(model.Player{ID: "p1", AvgSGTotal: 0.9, Active: true})
		store.AddPlayer(model.Player{ID: "p2", AvgSGTotal: 0.0, Active: true})

		engine := newEngine(store)

		Convey("When computing every metric", func() {
			score, err := engine.ComputeAll(context.Background(), "p1", "", nil)
			So(err, ShouldBeNil)

			Convey("Then the score carries the formula version and timestamp", func() {
				So(score.PlayerID, ShouldEqual, "p1")
				So(score.FormulaVersion, ShouldEqual, config.PlayerFormulaVersion)
				So(score.ComputedAt.Equal(fixedNow), ShouldBeTrue)
			})

			Convey("Then metrics with data are present and the rest are null", func() {
				So(score.CPI, ShouldNotBeNil)
				So(score.FormScore, ShouldNotBeNil)
				So(score.PressureScore, ShouldBeNil)
				So(score.CourseFitScore, ShouldBeNil)
				So(score.Components.CPI, ShouldNotBeNil)
				So(score.Components.Form, ShouldNotBeNil)
				So(score.Components.Pressure, ShouldBeNil)
				So(score.Components.CourseFit, ShouldBeNil)
			})

			Convey("Then the audit trail records the constants the run used", func() {
				So(score.Components.Constants["cpi.weeklyDecay"], ShouldEqual, 0.92)
				So(score.Components.Constants["form.weight0"], ShouldEqual, 0.40)
				So(score.Components.Constants["pressure.scale"], ShouldEqual, 1.5)
			})
		})
	})
}
