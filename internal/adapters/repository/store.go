// Package repository defines the data-store interfaces the rating engines
// read from and write to, plus the in-memory and SQLite implementations.
package repository

import (
	"context"
	"time"

	"github.com/clutchgolf/engine/internal/domain/model"
)

// PlayerReader provides the golf-side reads.
type PlayerReader interface {
	// Player returns one player's aggregate profile.
	Player(ctx context.Context, playerID string) (*model.Player, error)

	// RecentPerformances returns a player's performances ordered by
	// tournament start date descending, at most limit rows. With
	// requireFullSG set, only rows with every SG category and the total
	// populated are returned.
	RecentPerformances(ctx context.Context, playerID string, limit int, requireFullSG bool) ([]model.PerformanceRecord, error)

	// Tournament returns the event header for a tournament id.
	Tournament(ctx context.Context, tournamentID string) (*model.Tournament, error)

	// TournamentField returns every field member of a tournament, joined
	// to world rankings where known.
	TournamentField(ctx context.Context, tournamentID string) ([]model.FieldEntry, error)

	// RoundScores returns a player's rounds on or after since, joined to
	// tournament classification flags, ordered by date ascending.
	RoundScores(ctx context.Context, playerID string, since time.Time) ([]model.RoundScore, error)

	// ActivePlayers returns active players with SG data and at least
	// minEvents career events (0 means no minimum).
	ActivePlayers(ctx context.Context, minEvents int) ([]model.Player, error)

	// Course returns a course with its importance weights, ErrNotFound
	// when the course is unknown.
	Course(ctx context.Context, courseID string) (*model.Course, error)

	// CourseHistory returns the (player, course) aggregate, nil without
	// error when the player never played the course.
	CourseHistory(ctx context.Context, playerID, courseID string) (*model.PlayerCourseHistory, error)
}

// ManagerReader provides the fantasy-side reads.
type ManagerReader interface {
	// SeasonsByUser returns every historical and native season for a
	// user, ordered by year ascending.
	SeasonsByUser(ctx context.Context, userID string) ([]model.Season, error)

	// DraftGradesByUser returns all draft grades for a user.
	DraftGradesByUser(ctx context.Context, userID string) ([]model.DraftGrade, error)

	// WeeklyResultsByUser returns all weekly lineup results for a user.
	WeeklyResultsByUser(ctx context.Context, userID string) ([]model.WeeklyTeamResult, error)

	// ResolvedPredictionsByUser returns resolved predictions ordered by
	// resolution time ascending.
	ResolvedPredictionsByUser(ctx context.Context, userID string) ([]model.Prediction, error)

	// SnapshotAtOrBefore returns the most recent rating snapshot on or
	// before cutoff, nil without error when none exists.
	SnapshotAtOrBefore(ctx context.Context, userID string, cutoff time.Time) (*model.RatingSnapshot, error)

	// RatableUserIDs returns every user with at least one ratable record.
	RatableUserIDs(ctx context.Context) ([]string, error)
}

// RatingWriter persists engine outputs. All writes are idempotent upserts
// by natural key.
type RatingWriter interface {
	// UpsertClutchScore writes a score keyed by
	// (playerID, tournamentID-or-empty, formulaVersion).
	UpsertClutchScore(ctx context.Context, score model.ClutchScore) error

	// UpsertManagerRating writes a rating keyed by userID.
	UpsertManagerRating(ctx context.Context, rating model.ClutchManagerRating) error

	// UpsertRatingSnapshot writes a snapshot keyed by (userID, day).
	UpsertRatingSnapshot(ctx context.Context, snap model.RatingSnapshot) error
}

// Store is the full collaborator surface the engine requires.
type Store interface {
	PlayerReader
	ManagerReader
	RatingWriter
}
