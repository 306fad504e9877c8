package playermetrics

import (
	"context"
	"errors"
	"sort"

	"github.com/clutchgolf/engine/internal/adapters/repository"
	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/internal/domain/stats"
)

// CourseFitScore computes how well a player's skill profile matches a
// course's demands, in [0,100]. The player's four category percentiles are
// projected onto the course's importance weights, adjusted by an overall
// quality multiplier and a course-history bonus. Returns (nil, nil, nil)
// when the tournament, course weights, or player career sample are missing.
func (e *Engine) CourseFitScore(ctx context.Context, playerID, tournamentID string) (*float64, *model.CourseFitBreakdown, error) {
	c := e.cfg.CourseFit
	if tournamentID == "" {
		return nil, nil, nil
	}

	tournament, err := e.store.Tournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	course, err := e.store.Course(ctx, tournament.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if !course.HasWeights() {
		return nil, nil, nil
	}

	player, err := e.store.Player(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	if player.EventCount < c.MinCareerEvents {
		return nil, nil, nil
	}

	population, err := e.store.ActivePlayers(ctx, c.MinCareerEvents)
	if err != nil {
		return nil, nil, err
	}
	samples := categorySamples(population)

	profile := [4]float64{
		stats.PercentileRank(player.AvgSGOffTee, samples[0]),
		stats.PercentileRank(player.AvgSGApproach, samples[1]),
		stats.PercentileRank(player.AvgSGAround, samples[2]),
		stats.PercentileRank(player.AvgSGPutting, samples[3]),
	}
	demand := [4]float64{
		*course.WeightDriving,
		*course.WeightApproach,
		*course.WeightAroundGreen,
		*course.WeightPutting,
	}

	// Projection of skill onto demand, normalized so a player whose
	// percentiles exactly mirror the course weighting scores 1.0.
	rawFit := stats.Dot(profile, demand) / stats.Dot(demand, demand)

	totalPct := stats.PercentileRank(player.AvgSGTotal, samples[4])
	quality := c.QualityFloor + c.QualitySpan*totalPct

	breakdown := &model.CourseFitBreakdown{
		PlayerProfile:     profile,
		CourseProfile:     demand,
		RawFit:            rawFit,
		TotalSGPercentile: totalPct,
		QualityMultiplier: quality,
	}

	var bonus float64
	history, err := e.store.CourseHistory(ctx, playerID, course.ID)
	if err != nil {
		return nil, nil, err
	}
	if history != nil && history.Rounds >= c.HistoryMinRounds && history.AvgSG != nil {
		bonus = stats.Clamp(float64(history.Rounds)**history.AvgSG*c.HistoryScale,
			c.HistoryBonusMin, c.HistoryBonusMax)
		breakdown.HistoryRounds = history.Rounds
	}
	breakdown.HistoryBonus = bonus

	score := stats.Clamp(rawFit*100*quality+bonus, 0, 100)
	return &score, breakdown, nil
}

// categorySamples builds the five sorted population samples: off-tee,
// approach, around-green, putting, and total.
func categorySamples(population []model.Player) [5][]float64 {
	var out [5][]float64
	for _, p := range population {
		out[0] = append(out[0], p.AvgSGOffTee)
		out[1] = append(out[1], p.AvgSGApproach)
		out[2] = append(out[2], p.AvgSGAround)
		out[3] = append(out[3], p.AvgSGPutting)
		out[4] = append(out[4], p.AvgSGTotal)
	}
	for i := range out {
		sort.Float64s(out[i])
	}
	return out
}
