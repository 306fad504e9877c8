// Package config defines engine configuration and loading hooks.
//
// Every empirically tuned constant in the rating formulas lives here as a
// named, overridable value. None of them have a derivation; they are tuned
// numbers, and changing any of them is a new formula version.
package config

import (
	"context"

	"github.com/clutchgolf/engine/internal/domain/stats"
)

// PlayerFormulaVersion tags every persisted ClutchScore. Bump it whenever a
// player-metric constant or formula changes.
const PlayerFormulaVersion = "v2"

// ManagerFormulaVersion tags every persisted ClutchManagerRating.
const ManagerFormulaVersion = "v2"

// Config is the process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite database path; ":memory:" for ephemeral runs.
	DBPath string `koanf:"db_path"`

	Player  PlayerFormula  `koanf:"player"`
	Manager ManagerFormula `koanf:"manager"`
}

// FieldStrength parametrizes the tournament field-strength signal shared by
// CPI and Form Score.
type FieldStrength struct {
	// TopRanked caps how many ranked field members feed the average.
	TopRanked int `koanf:"top_ranked"`
	// MinRanked is the minimum ranked field members for a meaningful
	// average; below it the strength is NeutralStrength.
	MinRanked int `koanf:"min_ranked"`
	// EliteAvgRank and WeakAvgRank anchor the [0,1] strength scale.
	EliteAvgRank float64 `koanf:"elite_avg_rank"`
	WeakAvgRank  float64 `koanf:"weak_avg_rank"`
	// NeutralStrength is used when too few field members are ranked.
	NeutralStrength float64 `koanf:"neutral_strength"`
}

// CPIFormula holds the Clutch Performance Index constants.
type CPIFormula struct {
	MaxEvents         int     `koanf:"max_events"`
	MinEvents         int     `koanf:"min_events"`
	WeightOffTee      float64 `koanf:"weight_off_tee"`
	WeightApproach    float64 `koanf:"weight_approach"`
	WeightAroundGreen float64 `koanf:"weight_around_green"`
	WeightPutting     float64 `koanf:"weight_putting"`
	// SampleBonusWeight and SampleBonusFactor reward events where the
	// player completed more rounds: bonus = weight * (rounds/4) * totalSG * factor.
	SampleBonusWeight float64 `koanf:"sample_bonus_weight"`
	SampleBonusFactor float64 `koanf:"sample_bonus_factor"`
	// WeeklyDecay is the per-week exponential recency decay rate.
	WeeklyDecay float64 `koanf:"weekly_decay"`
	// FieldMultMin/Max bound the field-strength multiplier.
	FieldMultMin float64 `koanf:"field_mult_min"`
	FieldMultMax float64 `koanf:"field_mult_max"`
	// MeanShrink scales the population mean in the z-score denominator
	// pair: z = (raw - mean*events*MeanShrink) / (stddev*sqrt(events)).
	MeanShrink float64 `koanf:"mean_shrink"`
	// Range clamps the final CPI to [-Range, Range].
	Range float64 `koanf:"range"`
}

// FormFormula holds the Form Score constants.
type FormFormula struct {
	MaxFetch      int       `koanf:"max_fetch"`
	MinEvents     int       `koanf:"min_events"`
	MaxScored     int       `koanf:"max_scored"`
	Weights       []float64 `koanf:"weights"`
	FieldMultMin  float64   `koanf:"field_mult_min"`
	FieldMultMax  float64   `koanf:"field_mult_max"`
	MultMajor     float64   `koanf:"mult_major"`
	MultPlayoff   float64   `koanf:"mult_playoff"`
	MultSignature float64   `koanf:"mult_signature"`
}

// PressureFormula holds the Pressure Score constants.
type PressureFormula struct {
	WindowMonths      int `koanf:"window_months"`
	MinRounds         int `koanf:"min_rounds"`
	MinPressureRounds int `koanf:"min_pressure_rounds"`
	// TopCumulative marks a round 4 as pressure when the player sat inside
	// this many places of the cumulative through-R3 leaderboard.
	TopCumulative int     `koanf:"top_cumulative"`
	Scale         float64 `koanf:"scale"`
	Range         float64 `koanf:"range"`
}

// CourseFitFormula holds the Course Fit Score constants.
type CourseFitFormula struct {
	MinCareerEvents  int     `koanf:"min_career_events"`
	HistoryMinRounds int     `koanf:"history_min_rounds"`
	HistoryScale     float64 `koanf:"history_scale"`
	HistoryBonusMin  float64 `koanf:"history_bonus_min"`
	HistoryBonusMax  float64 `koanf:"history_bonus_max"`
	QualityFloor     float64 `koanf:"quality_floor"`
	QualitySpan      float64 `koanf:"quality_span"`
}

// PlayerFormula bundles the four player-metric formulas.
type PlayerFormula struct {
	FieldStrength FieldStrength    `koanf:"field_strength"`
	CPI           CPIFormula       `koanf:"cpi"`
	Form          FormFormula      `koanf:"form"`
	Pressure      PressureFormula  `koanf:"pressure"`
	CourseFit     CourseFitFormula `koanf:"course_fit"`
}

// ManagerWeights are the seven base component weights. They sum to 1.0.
type ManagerWeights struct {
	WinRate       float64 `koanf:"win_rate"`
	DraftIQ       float64 `koanf:"draft_iq"`
	RosterMgmt    float64 `koanf:"roster_mgmt"`
	Predictions   float64 `koanf:"predictions"`
	TradeAcumen   float64 `koanf:"trade_acumen"`
	Championships float64 `koanf:"championships"`
	Consistency   float64 `koanf:"consistency"`
}

// ManagerCurves are the per-component confidence curves.
type ManagerCurves struct {
	WinRate       []stats.CurvePoint `koanf:"win_rate"`
	DraftIQ       []stats.CurvePoint `koanf:"draft_iq"`
	RosterMgmt    []stats.CurvePoint `koanf:"roster_mgmt"`
	Predictions   []stats.CurvePoint `koanf:"predictions"`
	Championships []stats.CurvePoint `koanf:"championships"`
	Consistency   []stats.CurvePoint `koanf:"consistency"`
}

// WinRateFormula blends career, recent, and above-average-season signals.
type WinRateFormula struct {
	CareerWeight   float64 `koanf:"career_weight"`
	RecentWeight   float64 `koanf:"recent_weight"`
	AboveAvgWeight float64 `koanf:"above_avg_weight"`
	RecentSeasons  int     `koanf:"recent_seasons"`
}

// DraftIQFormula blends the overall grade with early-hit and late-steal rates.
type DraftIQFormula struct {
	GradeWeight    float64 `koanf:"grade_weight"`
	EarlyWeight    float64 `koanf:"early_weight"`
	LateWeight     float64 `koanf:"late_weight"`
	EarlyMaxRound  int     `koanf:"early_max_round"`
	EarlyHitScore  float64 `koanf:"early_hit_score"`
	LateMinRound   int     `koanf:"late_min_round"`
	LateStealScore float64 `koanf:"late_steal_score"`
}

// RosterFormula blends near-optimal weeks, bench efficiency, and engagement.
type RosterFormula struct {
	NearOptimalWeight float64 `koanf:"near_optimal_weight"`
	BenchWeight       float64 `koanf:"bench_weight"`
	EngagementWeight  float64 `koanf:"engagement_weight"`
	NearOptimalRatio  float64 `koanf:"near_optimal_ratio"`
	SeasonWeeks       int     `koanf:"season_weeks"`
}

// PredictionFormula controls the accuracy time decay.
type PredictionFormula struct {
	DecayDays float64 `koanf:"decay_days"`
}

// ChampionshipFormula blends titles, playoff appearances, playoff wins, and
// runner-up finishes.
type ChampionshipFormula struct {
	TitleWeight      float64 `koanf:"title_weight"`
	PlayoffWeight    float64 `koanf:"playoff_weight"`
	PlayoffWinWeight float64 `koanf:"playoff_win_weight"`
	RunnerUpWeight   float64 `koanf:"runner_up_weight"`
	// TitleRateScale maps a title rate to a full score: winning one season
	// in 1/TitleRateScale of attempts scores 100.
	TitleRateScale    float64 `koanf:"title_rate_scale"`
	RunnerUpRateScale float64 `koanf:"runner_up_rate_scale"`
}

// ConsistencyFormula blends variance, streaks, trend, and the worst-season floor.
type ConsistencyFormula struct {
	VarianceWeight float64 `koanf:"variance_weight"`
	StreakWeight   float64 `koanf:"streak_weight"`
	TrendWeight    float64 `koanf:"trend_weight"`
	FloorWeight    float64 `koanf:"floor_weight"`
	// VarianceCeiling is the win-pct stddev treated as maximal volatility.
	VarianceCeiling float64 `koanf:"variance_ceiling"`
	// StreakFloorPct is the win pct a season must reach to extend a streak.
	StreakFloorPct float64 `koanf:"streak_floor_pct"`
	// TrendScale converts a win-pct-per-season regression slope to points
	// around a neutral 50.
	TrendScale float64 `koanf:"trend_scale"`
	// FloorTarget is the worst-season win pct that earns a full floor score.
	FloorTarget float64 `koanf:"floor_target"`
	// MinGames qualifies a season for consistency analysis.
	MinGames int `koanf:"min_games"`
}

// TierThresholds are the minimum overall ratings per tier.
type TierThresholds struct {
	Elite      int `koanf:"elite"`
	Veteran    int `koanf:"veteran"`
	Competitor int `koanf:"competitor"`
	Contender  int `koanf:"contender"`
	Developing int `koanf:"developing"`
	Rookie     int `koanf:"rookie"`
}

// TrendFormula controls the snapshot comparison.
type TrendFormula struct {
	// MinSnapshotAgeDays is the minimum age of the snapshot compared against.
	MinSnapshotAgeDays int `koanf:"min_snapshot_age_days"`
	// Band is the rating delta treated as stable in either direction.
	Band int `koanf:"band"`
}

// ManagerFormula bundles the manager rating constants.
type ManagerFormula struct {
	Weights       ManagerWeights      `koanf:"weights"`
	Curves        ManagerCurves       `koanf:"curves"`
	WinRate       WinRateFormula      `koanf:"win_rate"`
	DraftIQ       DraftIQFormula      `koanf:"draft_iq"`
	Roster        RosterFormula       `koanf:"roster"`
	Predictions   PredictionFormula   `koanf:"predictions"`
	Championships ChampionshipFormula `koanf:"championships"`
	Consistency   ConsistencyFormula  `koanf:"consistency"`
	// SofteningExponent flattens confidence factors during aggregation.
	SofteningExponent float64        `koanf:"softening_exponent"`
	Tiers             TierThresholds `koanf:"tiers"`
	Trend             TrendFormula   `koanf:"trend"`
}

// New creates a Config populated with the tuned defaults. Context is
// accepted first per project convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel: "info",
		DBPath:   "clutch.db",
		Player: PlayerFormula{
			FieldStrength: FieldStrength{
				TopRanked:       30,
				MinRanked:       10,
				EliteAvgRank:    10,
				WeakAvgRank:     200,
				NeutralStrength: 0.5,
			},
			CPI: CPIFormula{
				MaxEvents:         12,
				MinEvents:         4,
				WeightOffTee:      0.30,
				WeightApproach:    0.30,
				WeightAroundGreen: 0.15,
				WeightPutting:     0.20,
				SampleBonusWeight: 0.05,
				SampleBonusFactor: 0.10,
				WeeklyDecay:       0.92,
				FieldMultMin:      0.8,
				FieldMultMax:      1.2,
				MeanShrink:        0.5,
				Range:             3,
			},
			Form: FormFormula{
				MaxFetch:      6,
				MinEvents:     2,
				MaxScored:     4,
				Weights:       []float64{0.40, 0.25, 0.20, 0.15},
				FieldMultMin:  0.85,
				FieldMultMax:  1.15,
				MultMajor:     1.15,
				MultPlayoff:   1.12,
				MultSignature: 1.10,
			},
			Pressure: PressureFormula{
				WindowMonths:      24,
				MinRounds:         20,
				MinPressureRounds: 5,
				TopCumulative:     10,
				Scale:             1.5,
				Range:             2,
			},
			CourseFit: CourseFitFormula{
				MinCareerEvents:  8,
				HistoryMinRounds: 4,
				HistoryScale:     2,
				HistoryBonusMin:  -5,
				HistoryBonusMax:  10,
				QualityFloor:     0.7,
				QualitySpan:      0.3,
			},
		},
		Manager: ManagerFormula{
			Weights: ManagerWeights{
				WinRate:       0.20,
				DraftIQ:       0.18,
				RosterMgmt:    0.18,
				Predictions:   0.15,
				TradeAcumen:   0.12,
				Championships: 0.10,
				Consistency:   0.07,
			},
			Curves: ManagerCurves{
				WinRate: []stats.CurvePoint{
					{SampleCount: 1, Confidence: 25},
					{SampleCount: 3, Confidence: 55},
					{SampleCount: 5, Confidence: 75},
					{SampleCount: 8, Confidence: 90},
					{SampleCount: 12, Confidence: 98},
				},
				DraftIQ: []stats.CurvePoint{
					{SampleCount: 1, Confidence: 30},
					{SampleCount: 3, Confidence: 60},
					{SampleCount: 5, Confidence: 80},
					{SampleCount: 8, Confidence: 95},
				},
				RosterMgmt: []stats.CurvePoint{
					{SampleCount: 4, Confidence: 20},
					{SampleCount: 8, Confidence: 45},
					{SampleCount: 17, Confidence: 65},
					{SampleCount: 51, Confidence: 85},
					{SampleCount: 85, Confidence: 95},
				},
				Predictions: []stats.CurvePoint{
					{SampleCount: 10, Confidence: 15},
					{SampleCount: 50, Confidence: 40},
					{SampleCount: 200, Confidence: 70},
					{SampleCount: 500, Confidence: 90},
				},
				Championships: []stats.CurvePoint{
					{SampleCount: 1, Confidence: 20},
					{SampleCount: 2, Confidence: 20},
					{SampleCount: 4, Confidence: 50},
					{SampleCount: 8, Confidence: 80},
					{SampleCount: 12, Confidence: 95},
				},
				Consistency: []stats.CurvePoint{
					{SampleCount: 1, Confidence: 10},
					{SampleCount: 2, Confidence: 10},
					{SampleCount: 4, Confidence: 45},
					{SampleCount: 6, Confidence: 70},
					{SampleCount: 10, Confidence: 90},
				},
			},
			WinRate: WinRateFormula{
				CareerWeight:   0.50,
				RecentWeight:   0.30,
				AboveAvgWeight: 0.20,
				RecentSeasons:  3,
			},
			DraftIQ: DraftIQFormula{
				GradeWeight:    0.40,
				EarlyWeight:    0.35,
				LateWeight:     0.25,
				EarlyMaxRound:  3,
				EarlyHitScore:  70,
				LateMinRound:   8,
				LateStealScore: 75,
			},
			Roster: RosterFormula{
				NearOptimalWeight: 0.40,
				BenchWeight:       0.30,
				EngagementWeight:  0.30,
				NearOptimalRatio:  0.90,
				SeasonWeeks:       17,
			},
			Predictions: PredictionFormula{
				DecayDays: 90,
			},
			Championships: ChampionshipFormula{
				TitleWeight:       0.35,
				PlayoffWeight:     0.25,
				PlayoffWinWeight:  0.25,
				RunnerUpWeight:    0.15,
				TitleRateScale:    5,
				RunnerUpRateScale: 5,
			},
			Consistency: ConsistencyFormula{
				VarianceWeight:  0.40,
				StreakWeight:    0.25,
				TrendWeight:     0.20,
				FloorWeight:     0.15,
				VarianceCeiling: 0.25,
				StreakFloorPct:  0.400,
				TrendScale:      400,
				FloorTarget:     0.5,
				MinGames:        5,
			},
			SofteningExponent: 0.6,
			Tiers: TierThresholds{
				Elite:      90,
				Veteran:    80,
				Competitor: 70,
				Contender:  60,
				Developing: 50,
				Rookie:     40,
			},
			Trend: TrendFormula{
				MinSnapshotAgeDays: 30,
				Band:               3,
			},
		},
	}
}
