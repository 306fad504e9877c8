package model

import "time"

// Tournament is the minimal event header the engine reads: where it was
// played and how it is classified.
type Tournament struct {
	ID        string
	Name      string
	CourseID  string
	EventType EventType
	StartDate time.Time
}

// PerformanceRecord is one player's result in one tournament. Strokes-gained
// components are pointers because older imports predate SG tracking.
type PerformanceRecord struct {
	PlayerID       string
	TournamentID   string
	CourseID       string
	EventType      EventType
	StartDate      time.Time
	SGOffTee       *float64
	SGApproach     *float64
	SGAroundGreen  *float64
	SGPutting      *float64
	SGTotal        *float64
	RoundScores    []int // stroke totals per round, up to 4
	FinishPosition int
	Status         PerformanceStatus
}

// HasAllComponents reports whether every SG category plus the total is populated.
func (p PerformanceRecord) HasAllComponents() bool {
	return p.SGOffTee != nil && p.SGApproach != nil && p.SGAroundGreen != nil &&
		p.SGPutting != nil && p.SGTotal != nil
}

// RoundsPlayed counts the recorded rounds for the event.
func (p PerformanceRecord) RoundsPlayed() int {
	return len(p.RoundScores)
}

// FieldEntry is one member of a tournament field, optionally joined to the
// player's world ranking.
type FieldEntry struct {
	PlayerID     string
	SGTotal      *float64
	WorldRanking *int
	RoundScores  []int
	Status       PerformanceStatus
}

// RoundScore is one player round joined to its tournament's classification
// flags, used for pressure-round bucketing.
type RoundScore struct {
	PlayerID     string
	TournamentID string
	Round        int
	SGTotal      float64
	Date         time.Time
	EventType    EventType
}

// Player is the read-only aggregate profile of a golfer.
type Player struct {
	ID            string
	Name          string
	AvgSGOffTee   float64
	AvgSGApproach float64
	AvgSGAround   float64
	AvgSGPutting  float64
	AvgSGTotal    float64
	EventCount    int
	WorldRanking  *int
	Active        bool
}

// Course carries the four importance weights a venue places on each skill.
// Weights are pointers: without all four, Course Fit is not computable.
type Course struct {
	ID                string
	Name              string
	WeightDriving     *float64
	WeightApproach    *float64
	WeightAroundGreen *float64
	WeightPutting     *float64
}

// HasWeights reports whether all four importance weights are populated.
func (c Course) HasWeights() bool {
	return c.WeightDriving != nil && c.WeightApproach != nil &&
		c.WeightAroundGreen != nil && c.WeightPutting != nil
}

// PlayerCourseHistory aggregates a player's past rounds at one course.
type PlayerCourseHistory struct {
	PlayerID string
	CourseID string
	Rounds   int
	AvgSG    *float64
}

// ClutchScore is the persisted output of the player metrics engine, keyed by
// (PlayerID, TournamentID-or-empty, FormulaVersion). A metric value and its
// breakdown are either both present or both nil.
type ClutchScore struct {
	PlayerID       string
	TournamentID   string // empty for a tournament-independent sweep
	FormulaVersion string
	CPI            *float64
	FormScore      *float64
	PressureScore  *float64
	CourseFitScore *float64
	Components     ClutchComponents
	ComputedAt     time.Time
}

// ClutchComponents is the audit trail for a ClutchScore: every intermediate
// quantity used by each metric, plus the constants the formulas ran with.
type ClutchComponents struct {
	CPI       *CPIBreakdown       `json:"cpi,omitempty"`
	Form      *FormBreakdown      `json:"form,omitempty"`
	Pressure  *PressureBreakdown  `json:"pressure,omitempty"`
	CourseFit *CourseFitBreakdown `json:"courseFit,omitempty"`
	Constants map[string]float64  `json:"constants"`
}

// CPIEventContribution is one event's share of the raw CPI sum.
type CPIEventContribution struct {
	TournamentID    string  `json:"tournamentId"`
	BlendedSG       float64 `json:"blendedSg"`
	WeeksAgo        float64 `json:"weeksAgo"`
	RecencyWeight   float64 `json:"recencyWeight"`
	FieldStrength   float64 `json:"fieldStrength"`
	FieldMultiplier float64 `json:"fieldMultiplier"`
	RoundsPlayed    int     `json:"roundsPlayed"`
	Contribution    float64 `json:"contribution"`
}

// CPIBreakdown records the raw sum and the normalization inputs.
type CPIBreakdown struct {
	Events           []CPIEventContribution `json:"events"`
	RawCPI           float64                `json:"rawCpi"`
	EventCount       int                    `json:"eventCount"`
	PopulationMean   float64                `json:"populationMean"`
	PopulationStdDev float64                `json:"populationStdDev"`
	ZScore           float64                `json:"zScore"`
}

// FormEventContribution is one event's weighted share of the form score.
type FormEventContribution struct {
	TournamentID    string  `json:"tournamentId"`
	BasePercentile  float64 `json:"basePercentile"`
	FieldStrength   float64 `json:"fieldStrength"`
	FieldMultiplier float64 `json:"fieldMultiplier"`
	EventMultiplier float64 `json:"eventMultiplier"`
	Adjusted        float64 `json:"adjusted"`
	Weight          float64 `json:"weight"`
}

// FormBreakdown records the per-event adjustments and the weighted sum.
type FormBreakdown struct {
	Events      []FormEventContribution `json:"events"`
	WeightedSum float64                 `json:"weightedSum"`
}

// PressureBreakdown records the two round buckets and their means.
type PressureBreakdown struct {
	PressureRounds int     `json:"pressureRounds"`
	BaselineRounds int     `json:"baselineRounds"`
	PressureMean   float64 `json:"pressureMean"`
	BaselineMean   float64 `json:"baselineMean"`
	Differential   float64 `json:"differential"`
}

// CourseFitBreakdown records the projection inputs and adjustments.
// Vectors are ordered off-tee, approach, around-green, putting.
type CourseFitBreakdown struct {
	PlayerProfile     [4]float64 `json:"playerProfile"`
	CourseProfile     [4]float64 `json:"courseProfile"`
	RawFit            float64    `json:"rawFit"`
	TotalSGPercentile float64    `json:"totalSgPercentile"`
	QualityMultiplier float64    `json:"qualityMultiplier"`
	HistoryRounds     int        `json:"historyRounds"`
	HistoryBonus      float64    `json:"historyBonus"`
}
