package playermetrics

import (
	"context"
	"sort"

	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/internal/domain/stats"
)

// FormScore computes recent form in [0,100]: per-event field percentile,
// adjusted for field strength and event type, combined with fixed recency
// weights. Returns (nil, nil, nil) when the player has too few completed
// events with a valid total.
func (e *Engine) FormScore(ctx context.Context, playerID string, cache *FieldStrengthCache) (*float64, *model.FormBreakdown, error) {
	c := e.cfg.Form

	perfs, err := e.store.RecentPerformances(ctx, playerID, 0, false)
	if err != nil {
		return nil, nil, err
	}
	// Withdrawals and DQs must not displace scoring events, so the completed
	// filter runs before the most-recent cutoff.
	selected := perfs[:0:0]
	for _, p := range perfs {
		if p.Status != model.StatusActive || p.SGTotal == nil {
			continue
		}
		selected = append(selected, p)
		if len(selected) == c.MaxFetch {
			break
		}
	}
	if len(selected) < c.MinEvents {
		return nil, nil, nil
	}
	if len(selected) > c.MaxScored {
		selected = selected[:c.MaxScored]
	}
	if len(selected) > len(c.Weights) {
		selected = selected[:len(c.Weights)]
	}

	// Re-normalize the recency weights when fewer events are available.
	weights := c.Weights
	if len(selected) < len(weights) {
		weights = weights[:len(selected)]
	}
	var weightTotal float64
	for _, w := range weights {
		weightTotal += w
	}

	breakdown := &model.FormBreakdown{}
	var sum float64
	for i, p := range selected {
		field, err := e.store.TournamentField(ctx, p.TournamentID)
		if err != nil {
			return nil, nil, err
		}
		sample := make([]float64, 0, len(field))
		for _, entry := range field {
			if entry.SGTotal != nil {
				sample = append(sample, *entry.SGTotal)
			}
		}
		sort.Float64s(sample)
		base := stats.PercentileRank(*p.SGTotal, sample)

		strength, err := e.fieldStrength(ctx, p.TournamentID, cache)
		if err != nil {
			return nil, nil, err
		}
		fieldMult := bandMultiplier(strength, c.FieldMultMin, c.FieldMultMax)
		eventMult := e.eventMultiplier(p.EventType)

		adjusted := base * fieldMult * eventMult
		weight := weights[i] / weightTotal
		sum += weight * adjusted

		breakdown.Events = append(breakdown.Events, model.FormEventContribution{
			TournamentID:    p.TournamentID,
			BasePercentile:  base,
			FieldStrength:   strength,
			FieldMultiplier: fieldMult,
			EventMultiplier: eventMult,
			Adjusted:        adjusted,
			Weight:          weight,
		})
	}
	breakdown.WeightedSum = sum

	score := stats.Clamp(sum*100, 0, 100)
	return &score, breakdown, nil
}

func (e *Engine) eventMultiplier(t model.EventType) float64 {
	switch t {
	case model.EventMajor:
		return e.cfg.Form.MultMajor
	case model.EventPlayoff:
		return e.cfg.Form.MultPlayoff
	case model.EventSignature:
		return e.cfg.Form.MultSignature
	default:
		return 1.0
	}
}
