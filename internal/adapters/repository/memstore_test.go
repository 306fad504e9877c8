package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clutchgolf/engine/internal/adapters/repository"
	"github.com/clutchgolf/engine/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }

func TestMemStoreReads(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded in-memory store", t, func() {
		store := repository.NewMemStore()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		Convey("When looking up a missing player", func() {
			_, err := store.Player(ctx, "nobody")

			Convey("Then the sentinel not-found error is wrapped", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When course history is absent", func() {
			h, err := store.CourseHistory(ctx, "p", "c")

			Convey("Then both return values are nil", func() {
				So(err, ShouldBeNil)
				So(h, ShouldBeNil)
			})
		})

		Convey("When performances are fetched with a limit and SG filter", func() {
			full := model.PerformanceRecord{
				PlayerID: "p1", TournamentID: "t1", StartDate: base,
				SGOffTee: f(0.1), SGApproach: f(0.1), SGAroundGreen: f(0.1),
				SGPutting: f(0.1), SGTotal: f(0.4),
			}
			store.AddPerformance(full)

			partial := full
			partial.TournamentID = "t2"
			partial.StartDate = base.AddDate(0, 0, 7)
			partial.SGPutting = nil
			store.AddPerformance(partial)

			newest := full
			newest.TournamentID = "t3"
			newest.StartDate = base.AddDate(0, 0, 14)
			store.AddPerformance(newest)

			Convey("Then full-SG filtering drops incomplete records", func() {
				perfs, err := store.RecentPerformances(ctx, "p1", 10, true)
				So(err, ShouldBeNil)
				So(len(perfs), ShouldEqual, 2)
				So(perfs[0].TournamentID, ShouldEqual, "t3")
				So(perfs[1].TournamentID, ShouldEqual, "t1")
			})

			Convey("Then the limit keeps the most recent records", func() {
				perfs, err := store.RecentPerformances(ctx, "p1", 2, false)
				So(err, ShouldBeNil)
				So(len(perfs), ShouldEqual, 2)
				So(perfs[0].TournamentID, ShouldEqual, "t3")
				So(perfs[1].TournamentID, ShouldEqual, "t2")
			})
		})

		Convey("When round scores are fetched with a lower bound", func() {
			store.AddTournament(model.Tournament{ID: "t1"})
			store.AddRoundScore(model.RoundScore{PlayerID: "p1", TournamentID: "t1", Round: 1, Date: base})
			store.AddRoundScore(model.RoundScore{PlayerID: "p1", TournamentID: "t1", Round: 2, Date: base.AddDate(0, 0, 1)})
			store.AddRoundScore(model.RoundScore{PlayerID: "p1", TournamentID: "t1", Round: 3, Date: base.AddDate(-1, 0, 0)})

			rounds, err := store.RoundScores(ctx, "p1", base)
			So(err, ShouldBeNil)

			Convey("Then stale rounds are excluded and the rest sort by date", func() {
				So(len(rounds), ShouldEqual, 2)
				So(rounds[0].Round, ShouldEqual, 1)
				So(rounds[1].Round, ShouldEqual, 2)
			})
		})

		Convey("When seasons are fetched", func() {
			store.AddSeason(model.Season{UserID: "u1", Year: 2023, Source: model.SeasonNative})
			store.AddSeason(model.Season{UserID: "u1", Year: 2021, Source: model.SeasonHistorical})
			store.AddSeason(model.Season{UserID: "u2", Year: 2022, Source: model.SeasonNative})

			seasons, err := store.SeasonsByUser(ctx, "u1")
			So(err, ShouldBeNil)

			Convey("Then only the user's seasons come back, oldest first", func() {
				So(len(seasons), ShouldEqual, 2)
				So(seasons[0].Year, ShouldEqual, 2021)
				So(seasons[1].Year, ShouldEqual, 2023)
			})
		})

		Convey("When ratable users are listed", func() {
			store.AddSeason(model.Season{UserID: "charlie"})
			store.AddDraftGrade(model.DraftGrade{UserID: "alice"})
			store.AddWeeklyResult(model.WeeklyTeamResult{UserID: "bob"})
			store.AddPrediction(model.Prediction{UserID: "alice"})

			ids, err := store.RatableUserIDs(ctx)
			So(err, ShouldBeNil)

			Convey("Then every data source contributes once, sorted", func() {
				So(ids, ShouldResemble, []string{"alice", "bob", "charlie"})
			})
		})
	})
}

func TestMemStoreWrites(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory store", t, func() {
		store := repository.NewMemStore()

		Convey("When the same clutch score is upserted twice", func() {
			score := model.ClutchScore{
				PlayerID: "p1", TournamentID: "t1", FormulaVersion: "v2", CPI: f(1.2),
			}
			So(store.UpsertClutchScore(ctx, score), ShouldBeNil)
			score.CPI = f(1.5)
			So(store.UpsertClutchScore(ctx, score), ShouldBeNil)

			Convey("Then the natural key holds a single, latest record", func() {
				got, ok := store.ClutchScoreByKey("p1", "t1", "v2")
				So(ok, ShouldBeTrue)
				So(*got.CPI, ShouldEqual, 1.5)
			})
		})

		Convey("When scores differ only by formula version", func() {
			So(store.UpsertClutchScore(ctx, model.ClutchScore{
				PlayerID: "p1", TournamentID: "t1", FormulaVersion: "v1", CPI: f(0.5),
			}), ShouldBeNil)
			So(store.UpsertClutchScore(ctx, model.ClutchScore{
				PlayerID: "p1", TournamentID: "t1", FormulaVersion: "v2", CPI: f(0.7),
			}), ShouldBeNil)

			Convey("Then both versions coexist", func() {
				v1, ok1 := store.ClutchScoreByKey("p1", "t1", "v1")
				v2, ok2 := store.ClutchScoreByKey("p1", "t1", "v2")
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(*v1.CPI, ShouldEqual, 0.5)
				So(*v2.CPI, ShouldEqual, 0.7)
			})
		})

		Convey("When a snapshot is upserted twice for the same day", func() {
			day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
			So(store.UpsertRatingSnapshot(ctx, model.RatingSnapshot{
				UserID: "u1", Day: day, Rating: 60,
			}), ShouldBeNil)
			So(store.UpsertRatingSnapshot(ctx, model.RatingSnapshot{
				UserID: "u1", Day: day, Rating: 62,
			}), ShouldBeNil)

			Convey("Then only one snapshot exists for the day", func() {
				So(store.SnapshotCount("u1"), ShouldEqual, 1)
			})

			Convey("And a different day adds a second snapshot", func() {
				So(store.UpsertRatingSnapshot(ctx, model.RatingSnapshot{
					UserID: "u1", Day: day.AddDate(0, 0, 1), Rating: 63,
				}), ShouldBeNil)
				So(store.SnapshotCount("u1"), ShouldEqual, 2)
			})
		})

		Convey("When snapshots are queried by cutoff", func() {
			for _, d := range []int{1, 10, 20} {
				day := time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
				So(store.UpsertRatingSnapshot(ctx, model.RatingSnapshot{
					UserID: "u2", Day: day, Rating: 50 + d,
				}), ShouldBeNil)
			}

			Convey("Then the latest at-or-before snapshot wins", func() {
				snap, err := store.SnapshotAtOrBefore(ctx, "u2", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
				So(err, ShouldBeNil)
				So(snap, ShouldNotBeNil)
				So(snap.Rating, ShouldEqual, 60)
			})

			Convey("Then a cutoff before every snapshot yields nil", func() {
				snap, err := store.SnapshotAtOrBefore(ctx, "u2", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
				So(err, ShouldBeNil)
				So(snap, ShouldBeNil)
			})
		})
	})
}
