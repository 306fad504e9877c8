package playermetrics

import (
	"context"
	"sort"
	"sync"

	"github.com/clutchgolf/engine/internal/domain/stats"
)

// FieldStrengthCache memoizes per-tournament field strength for the duration
// of one computation run. Construct one at the top of a run and pass it down;
// it must never outlive the run (no process-wide instance).
type FieldStrengthCache struct {
	mu   sync.Mutex
	vals map[string]float64
}

// NewFieldStrengthCache creates an empty per-run cache.
func NewFieldStrengthCache() *FieldStrengthCache {
	return &FieldStrengthCache{vals: make(map[string]float64)}
}

// fieldStrength returns the [0,1] strength of a tournament field, derived
// from the average world ranking of its best-ranked entrants. Tournaments
// with too few ranked members get the neutral strength.
func (e *Engine) fieldStrength(ctx context.Context, tournamentID string, cache *FieldStrengthCache) (float64, error) {
	cache.mu.Lock()
	if v, ok := cache.vals[tournamentID]; ok {
		cache.mu.Unlock()
		return v, nil
	}
	cache.mu.Unlock()

	entries, err := e.store.TournamentField(ctx, tournamentID)
	if err != nil {
		return 0, err
	}

	fs := e.cfg.FieldStrength
	var ranks []float64
	for _, entry := range entries {
		if entry.WorldRanking != nil {
			ranks = append(ranks, float64(*entry.WorldRanking))
		}
	}

	strength := fs.NeutralStrength
	if len(ranks) >= fs.MinRanked {
		sort.Float64s(ranks)
		if len(ranks) > fs.TopRanked {
			ranks = ranks[:fs.TopRanked]
		}
		avg := stats.Mean(ranks)
		strength = stats.Clamp((fs.WeakAvgRank-avg)/(fs.WeakAvgRank-fs.EliteAvgRank), 0, 1)
	}

	cache.mu.Lock()
	cache.vals[tournamentID] = strength
	cache.mu.Unlock()
	return strength, nil
}

// bandMultiplier maps a [0,1] strength into the [lo,hi] multiplier band.
func bandMultiplier(strength, lo, hi float64) float64 {
	return lo + (hi-lo)*strength
}
