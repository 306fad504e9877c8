package playermetrics

import (
	"context"
	"math"

	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/internal/domain/stats"
)

const (
	hoursPerWeek   = 24 * 7
	maxEventRounds = 4
)

// CPI computes the Clutch Performance Index in [-Range, Range]: a blended,
// recency-decayed, field-strength-weighted strokes-gained sum z-scored
// against the active player population. Returns (nil, nil, nil) when the
// player has too few fully-populated events.
func (e *Engine) CPI(ctx context.Context, playerID string, cache *FieldStrengthCache) (*float64, *model.CPIBreakdown, error) {
	c := e.cfg.CPI

	perfs, err := e.store.RecentPerformances(ctx, playerID, c.MaxEvents, true)
	if err != nil {
		return nil, nil, err
	}
	if len(perfs) < c.MinEvents {
		return nil, nil, nil
	}

	now := e.now()
	breakdown := &model.CPIBreakdown{EventCount: len(perfs)}
	var raw float64
	for _, p := range perfs {
		blended := c.WeightOffTee**p.SGOffTee +
			c.WeightApproach**p.SGApproach +
			c.WeightAroundGreen**p.SGAroundGreen +
			c.WeightPutting**p.SGPutting +
			c.SampleBonusWeight*sampleBonus(p, c.SampleBonusFactor)

		weeks := now.Sub(p.StartDate).Hours() / hoursPerWeek
		if weeks < 0 {
			weeks = 0
		}
		recency := math.Pow(c.WeeklyDecay, weeks)

		strength, err := e.fieldStrength(ctx, p.TournamentID, cache)
		if err != nil {
			return nil, nil, err
		}
		mult := bandMultiplier(strength, c.FieldMultMin, c.FieldMultMax)

		contribution := recency * mult * blended
		raw += contribution
		breakdown.Events = append(breakdown.Events, model.CPIEventContribution{
			TournamentID:    p.TournamentID,
			BlendedSG:       blended,
			WeeksAgo:        weeks,
			RecencyWeight:   recency,
			FieldStrength:   strength,
			FieldMultiplier: mult,
			RoundsPlayed:    p.RoundsPlayed(),
			Contribution:    contribution,
		})
	}
	breakdown.RawCPI = raw

	population, err := e.store.ActivePlayers(ctx, 0)
	if err != nil {
		return nil, nil, err
	}
	totals := make([]float64, 0, len(population))
	for _, p := range population {
		totals = append(totals, p.AvgSGTotal)
	}
	popMean := stats.Mean(totals)
	popStd := stats.StdDev(totals)
	breakdown.PopulationMean = popMean
	breakdown.PopulationStdDev = popStd

	var z float64
	if popStd != 0 {
		n := float64(len(perfs))
		z = (raw - popMean*n*c.MeanShrink) / (popStd * math.Sqrt(n))
	}
	breakdown.ZScore = z

	cpi := stats.Clamp(z, -c.Range, c.Range)
	return &cpi, breakdown, nil
}

// sampleBonus rewards events where the player completed more rounds.
func sampleBonus(p model.PerformanceRecord, factor float64) float64 {
	rounds := float64(p.RoundsPlayed()) / maxEventRounds
	return rounds * *p.SGTotal * factor
}
