// Package managerrating computes the composite 0-100 manager rating from a
// fantasy user's multi-season history: seven weighted sub-scores, each with
// its own confidence, aggregated with confidence softening and inactive
// weight redistribution.
package managerrating

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clutchgolf/engine/internal/adapters/repository"
	"github.com/clutchgolf/engine/internal/config"
	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/pkg/logger"
)

// Component names used in aggregation traces and logs.
const (
	ComponentWinRate       = "winRate"
	ComponentDraftIQ       = "draftIq"
	ComponentRosterMgmt    = "rosterMgmt"
	ComponentPredictions   = "predictions"
	ComponentTradeAcumen   = "tradeAcumen"
	ComponentChampionships = "championships"
	ComponentConsistency   = "consistency"
)

// Engine computes manager ratings against a store.
type Engine struct {
	store repository.ManagerReader
	cfg   config.ManagerFormula
	now   func() time.Time
	log   logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine with the given store and formula constants.
func New(store repository.ManagerReader, cfg config.ManagerFormula, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		log:   logger.Noop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute calculates the full rating for one user. The seven sub-scores run
// concurrently (each reads its own record set) and join into fixed slots, so
// completion order never affects the result. Persistence is the caller's
// responsibility.
func (e *Engine) Compute(ctx context.Context, userID string) (model.ClutchManagerRating, error) {
	var (
		wg         sync.WaitGroup
		components model.ManagerComponents
		errs       [7]error
	)

	run := func(slot *model.ComponentScore, errSlot *error, f func(context.Context, string) (model.ComponentScore, error)) {
		defer wg.Done()
		*slot, *errSlot = f(ctx, userID)
	}

	wg.Add(7)
	go run(&components.WinRate, &errs[0], e.winRate)
	go run(&components.DraftIQ, &errs[1], e.draftIQ)
	go run(&components.RosterMgmt, &errs[2], e.rosterMgmt)
	go run(&components.Predictions, &errs[3], e.predictions)
	go run(&components.TradeAcumen, &errs[4], e.tradeAcumen)
	go run(&components.Championships, &errs[5], e.championships)
	go run(&components.Consistency, &errs[6], e.consistency)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return model.ClutchManagerRating{}, fmt.Errorf("compute rating for user %s: %w", userID, err)
		}
	}

	overall, confidence, trace := e.aggregate(components)
	components.Aggregation = trace

	tier := e.tierFor(overall)
	trend, err := e.trendFor(ctx, userID, overall)
	if err != nil {
		return model.ClutchManagerRating{}, fmt.Errorf("resolve trend for user %s: %w", userID, err)
	}

	e.log.Debug(ctx, "manager rating computed",
		logger.String("user", userID),
		logger.Int("active_components", len(trace.ActiveComponents)))

	return model.ClutchManagerRating{
		UserID:         userID,
		FormulaVersion: config.ManagerFormulaVersion,
		Overall:        overall,
		Confidence:     confidence,
		Tier:           tier,
		Trend:          trend,
		Components:     components,
		ComputedAt:     e.now().UTC(),
	}, nil
}

// tierFor maps an overall rating onto its tier, UNRANKED for nil.
func (e *Engine) tierFor(overall *int) model.Tier {
	if overall == nil {
		return model.TierUnranked
	}
	t := e.cfg.Tiers
	switch v := *overall; {
	case v >= t.Elite:
		return model.TierElite
	case v >= t.Veteran:
		return model.TierVeteran
	case v >= t.Competitor:
		return model.TierCompetitor
	case v >= t.Contender:
		return model.TierContender
	case v >= t.Developing:
		return model.TierDeveloping
	case v >= t.Rookie:
		return model.TierRookie
	default:
		return model.TierUnranked
	}
}

// trendFor compares the fresh rating with the most recent snapshot old
// enough to be meaningful.
func (e *Engine) trendFor(ctx context.Context, userID string, overall *int) (model.Trend, error) {
	if overall == nil {
		return model.TrendNew, nil
	}
	cutoff := e.now().AddDate(0, 0, -e.cfg.Trend.MinSnapshotAgeDays)
	snap, err := e.store.SnapshotAtOrBefore(ctx, userID, cutoff)
	if err != nil {
		return "", err
	}
	if snap == nil {
		return model.TrendNew, nil
	}
	delta := *overall - snap.Rating
	switch {
	case delta > e.cfg.Trend.Band:
		return model.TrendUp, nil
	case delta < -e.cfg.Trend.Band:
		return model.TrendDown, nil
	default:
		return model.TrendStable, nil
	}
}
