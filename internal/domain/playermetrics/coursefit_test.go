package playermetrics_test

import (
	"context"
	"testing"

	"github.com/clutchgolf/engine/internal/adapters/repository"
	"github.com/clutchgolf/engine/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func seedCourseFit() *repository.MemStore {
	store := repository.NewMemStore()

	store.AddPlayer(model.Player{
		ID: "c1", AvgSGOffTee: 0.5, AvgSGApproach: 0.4, AvgSGAround: 0.1,
		AvgSGPutting: 0.0, AvgSGTotal: 1.0, EventCount: 20, Active: true,
	})
	store.AddPlayer(model.Player{
		ID: "c2", AvgSGOffTee: 0.1, AvgSGApproach: 0.6, AvgSGAround: 0.2,
		AvgSGPutting: -0.3, AvgSGTotal: 0.6, EventCount: 15, Active: true,
	})
	store.AddPlayer(model.Player{
		ID: "c3", AvgSGOffTee: -0.2, AvgSGApproach: 0.2, AvgSGAround: 0.3,
		AvgSGPutting: 0.2, AvgSGTotal: 0.5, EventCount: 30, Active: true,
	})
	store.AddPlayer(model.Player{
		ID: "c4", AvgSGOffTee: 0.3, AvgSGApproach: 0.0, AvgSGAround: -0.1,
		AvgSGPutting: 0.4, AvgSGTotal: 0.6, EventCount: 12, Active: true,
	})
	// Too few events to join the percentile population.
	store.AddPlayer(model.Player{ID: "c5", AvgSGTotal: 3.0, EventCount: 2, Active: true})

	store.AddCourse(model.Course{
		ID: "augusta", WeightDriving: f(0.5), WeightApproach: f(0.5),
		WeightAroundGreen: f(0.5), WeightPutting: f(0.5),
	})
	store.AddTournament(model.Tournament{ID: "masters", CourseID: "augusta", EventType: model.EventMajor})
	return store
}

func TestCourseFitScore(t *testing.T) {
	Convey("Given a weighted course and a populated player pool", t, func() {
		store := seedCourseFit()

		Convey("When the player has no history at the course", func() {
			score, breakdown, err := newEngine(store).CourseFitScore(context.Background(), "c1", "masters")
			So(err, ShouldBeNil)
			So(score, ShouldNotBeNil)

			Convey("Then the projection and quality match the hand computation", func() {
				// profile [0.75 0.5 0.25 0.25] against uniform demand 0.5
				So(breakdown.PlayerProfile, ShouldResemble, [4]float64{0.75, 0.5, 0.25, 0.25})
				So(breakdown.RawFit, ShouldAlmostEqual, 0.875, 1e-9)
				So(breakdown.TotalSGPercentile, ShouldAlmostEqual, 0.75, 1e-9)
				So(breakdown.QualityMultiplier, ShouldAlmostEqual, 0.925, 1e-9)
				So(breakdown.HistoryBonus, ShouldEqual, 0)
				So(*score, ShouldAlmostEqual, 80.9375, 0.001)
			})
		})

		Convey("When the player has course history above the round minimum", func() {
			store.AddCourseHistory(model.PlayerCourseHistory{
				PlayerID: "c1", CourseID: "augusta", Rounds: 6, AvgSG: f(0.5),
			})
			score, breakdown, err := newEngine(store).CourseFitScore(context.Background(), "c1", "masters")
			So(err, ShouldBeNil)
			So(score, ShouldNotBeNil)

			Convey("Then the history bonus lifts the score", func() {
				So(breakdown.HistoryRounds, ShouldEqual, 6)
				So(breakdown.HistoryBonus, ShouldAlmostEqual, 6, 1e-9)
				So(*score, ShouldAlmostEqual, 86.9375, 0.001)
			})
		})

		Convey("When the history sample is too small", func() {
			store.AddCourseHistory(model.PlayerCourseHistory{
				PlayerID: "c1", CourseID: "augusta", Rounds: 2, AvgSG: f(2.0),
			})
			_, breakdown, err := newEngine(store).CourseFitScore(context.Background(), "c1", "masters")
			So(err, ShouldBeNil)

			Convey("Then no bonus applies", func() {
				So(breakdown.HistoryBonus, ShouldEqual, 0)
				So(breakdown.HistoryRounds, ShouldEqual, 0)
			})
		})

		Convey("When a terrible history would drag the score down", func() {
			store.AddCourseHistory(model.PlayerCourseHistory{
				PlayerID: "c1", CourseID: "augusta", Rounds: 12, AvgSG: f(-3.0),
			})
			score, breakdown, err := newEngine(store).CourseFitScore(context.Background(), "c1", "masters")
			So(err, ShouldBeNil)

			Convey("Then the penalty bottoms out at the bonus floor", func() {
				So(breakdown.HistoryBonus, ShouldEqual, -5)
				So(*score, ShouldAlmostEqual, 75.9375, 0.001)
			})
		})

		Convey("When the course is missing an importance weight", func() {
			store.AddCourse(model.Course{ID: "bare", WeightDriving: f(0.5)})
			store.AddTournament(model.Tournament{ID: "open", CourseID: "bare"})

			score, breakdown, err := newEngine(store).CourseFitScore(context.Background(), "c1", "open")

			Convey("Then the course fit is null", func() {
				So(err, ShouldBeNil)
				So(score, ShouldBeNil)
				So(breakdown, ShouldBeNil)
			})
		})

		Convey("When the player's career sample is too small", func() {
			score, breakdown, err := newEngine(store).CourseFitScore(context.Background(), "c5", "masters")

			Convey("Then the course fit is null", func() {
				So(err, ShouldBeNil)
				So(score, ShouldBeNil)
				So(breakdown, ShouldBeNil)
			})
		})

		Convey("When no tournament is in scope", func() {
			score, breakdown, err := newEngine(store).CourseFitScore(context.Background(), "c1", "")

			Convey("Then the course fit is null", func() {
				So(err, ShouldBeNil)
				So(score, ShouldBeNil)
				So(breakdown, ShouldBeNil)
			})
		})

		Convey("When the tournament is unknown", func() {
			score, breakdown, err := newEngine(store).CourseFitScore(context.Background(), "c1", "nope")

			Convey("Then the course fit is null rather than an error", func() {
				So(err, ShouldBeNil)
				So(score, ShouldBeNil)
				So(breakdown, ShouldBeNil)
			})
		})
	})
}
