package model

import "time"

// Season is one user-year of league results. Historical (imported) and
// native seasons share the shape; Source tells them apart.
type Season struct {
	UserID        string
	Year          int
	Source        SeasonSource
	Platform      Platform
	TeamIDs       PlatformTeamIDs
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
	MadePlayoffs  bool
	PlayoffWins   int
	PlayoffLosses int
	Champion      bool
	RunnerUp      bool
}

// Games counts decided games plus ties.
func (s Season) Games() int { return s.Wins + s.Losses + s.Ties }

// WinPct returns the season win fraction with ties counted as half a win,
// 0 when no games were recorded.
func (s Season) WinPct() float64 {
	g := s.Games()
	if g == 0 {
		return 0
	}
	return (float64(s.Wins) + 0.5*float64(s.Ties)) / float64(g)
}

// DraftPick is one graded selection inside a draft.
type DraftPick struct {
	Round int
	Score float64
}

// DraftGrade is a team's overall draft score plus optional pick detail.
type DraftGrade struct {
	UserID string
	Year   int
	Score  float64
	Picks  []DraftPick
}

// WeeklyTeamResult is one week of lineup outcomes for a team.
type WeeklyTeamResult struct {
	UserID        string
	Year          int
	Week          int
	ActivePoints  float64
	BenchPoints   float64
	OptimalPoints float64
}

// Prediction is one resolved user prediction.
type Prediction struct {
	UserID     string
	Correct    bool
	ResolvedAt time.Time
}

// ComponentScore is one manager-rating sub-score: a nullable score and the
// confidence the engine places in it.
type ComponentScore struct {
	Score      *float64 `json:"score"`
	Confidence float64  `json:"confidence"`
}

// Active reports whether the component participates in aggregation.
func (c ComponentScore) Active() bool { return c.Score != nil && c.Confidence > 0 }

// ManagerComponents is the full per-component breakdown persisted with a
// rating, including the aggregation trace.
type ManagerComponents struct {
	WinRate       ComponentScore   `json:"winRate"`
	DraftIQ       ComponentScore   `json:"draftIq"`
	RosterMgmt    ComponentScore   `json:"rosterMgmt"`
	Predictions   ComponentScore   `json:"predictions"`
	TradeAcumen   ComponentScore   `json:"tradeAcumen"`
	Championships ComponentScore   `json:"championships"`
	Consistency   ComponentScore   `json:"consistency"`
	Aggregation   AggregationTrace `json:"aggregation"`
}

// AggregationTrace records how the overall rating was assembled: which
// components were active, the redistributed weights, and the softened
// confidence factors actually applied.
type AggregationTrace struct {
	ActiveComponents    []string           `json:"activeComponents"`
	BaseWeights         map[string]float64 `json:"baseWeights"`
	AdjustedWeights     map[string]float64 `json:"adjustedWeights"`
	SoftenedConfidences map[string]float64 `json:"softenedConfidences"`
	WeightedSum         float64            `json:"weightedSum"`
	WeightTotal         float64            `json:"weightTotal"`
}

// ClutchManagerRating is the persisted output of the manager rating engine,
// one row per user.
type ClutchManagerRating struct {
	UserID         string
	FormulaVersion string
	Overall        *int
	Confidence     float64
	Tier           Tier
	Trend          Trend
	Components     ManagerComponents
	ComputedAt     time.Time
}

// RatingSnapshot records one user's overall rating for one calendar day.
// Day is the date in UTC, truncated to midnight; the (UserID, Day) pair is
// the natural key.
type RatingSnapshot struct {
	UserID    string
	Day       time.Time
	Rating    int
	CreatedAt time.Time
}

// SnapshotDay truncates t to its UTC calendar day.
func SnapshotDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
