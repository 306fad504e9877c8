package playermetrics

import (
	"context"
	"sort"

	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/internal/domain/stats"
)

const (
	signaturePressureRound = 3
	finalRound             = 4
	throughRounds          = 3
)

// PressureScore computes the pressure differential in [-Range, Range]: the
// player's mean strokes-gained in pressure rounds minus baseline rounds,
// scaled. Returns (nil, nil, nil) without enough rounds in the trailing
// window or enough pressure rounds among them.
func (e *Engine) PressureScore(ctx context.Context, playerID string) (*float64, *model.PressureBreakdown, error) {
	c := e.cfg.Pressure

	since := e.now().AddDate(0, -c.WindowMonths, 0)
	rounds, err := e.store.RoundScores(ctx, playerID, since)
	if err != nil {
		return nil, nil, err
	}
	if len(rounds) < c.MinRounds {
		return nil, nil, nil
	}

	// Contention state is per tournament; resolve it once per tournament
	// within this computation.
	contending := make(map[string]bool)

	var pressureSG, baselineSG []float64
	for _, r := range rounds {
		isPressure, err := e.isPressureRound(ctx, playerID, r, contending)
		if err != nil {
			return nil, nil, err
		}
		if isPressure {
			pressureSG = append(pressureSG, r.SGTotal)
		} else {
			baselineSG = append(baselineSG, r.SGTotal)
		}
	}
	if len(pressureSG) < c.MinPressureRounds {
		return nil, nil, nil
	}

	pressureMean := stats.Mean(pressureSG)
	baselineMean := stats.Mean(baselineSG)
	diff := pressureMean - baselineMean
	score := stats.Clamp(diff*c.Scale, -c.Range, c.Range)

	return &score, &model.PressureBreakdown{
		PressureRounds: len(pressureSG),
		BaselineRounds: len(baselineSG),
		PressureMean:   pressureMean,
		BaselineMean:   baselineMean,
		Differential:   diff,
	}, nil
}

// isPressureRound classifies one round. Pressure rounds are any round of a
// major or playoff, the weekend rounds of a signature event, and a final
// round played while inside the cumulative through-R3 top group.
func (e *Engine) isPressureRound(ctx context.Context, playerID string, r model.RoundScore, contending map[string]bool) (bool, error) {
	switch r.EventType {
	case model.EventMajor, model.EventPlayoff:
		return true, nil
	case model.EventSignature:
		if r.Round >= signaturePressureRound {
			return true, nil
		}
	}
	if r.Round != finalRound {
		return false, nil
	}
	inTop, ok := contending[r.TournamentID]
	if !ok {
		var err error
		inTop, err = e.inCumulativeTop(ctx, playerID, r.TournamentID)
		if err != nil {
			return false, err
		}
		contending[r.TournamentID] = inTop
	}
	return inTop, nil
}

// inCumulativeTop ranks every field member's cumulative strokes through
// round 3 ascending and reports whether the player sits inside the
// configured top group.
func (e *Engine) inCumulativeTop(ctx context.Context, playerID, tournamentID string) (bool, error) {
	field, err := e.store.TournamentField(ctx, tournamentID)
	if err != nil {
		return false, err
	}

	var playerTotal int
	var playerFound bool
	var totals []int
	for _, entry := range field {
		if len(entry.RoundScores) < throughRounds {
			continue
		}
		var cum int
		for _, s := range entry.RoundScores[:throughRounds] {
			cum += s
		}
		totals = append(totals, cum)
		if entry.PlayerID == playerID {
			playerTotal = cum
			playerFound = true
		}
	}
	if !playerFound {
		return false, nil
	}
	sort.Ints(totals)
	// Position is 1 + the number of strictly better cumulative totals, so
	// ties share the better position.
	position := 1
	for _, t := range totals {
		if t < playerTotal {
			position++
		}
	}
	return position <= e.cfg.Pressure.TopCumulative, nil
}
