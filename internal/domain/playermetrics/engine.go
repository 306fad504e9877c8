// Package playermetrics computes the four per-player golf metrics: Clutch
// Performance Index, Form Score, Pressure Score, and Course Fit Score.
//
// Each metric is independently computable. Insufficient data yields a nil
// metric with no breakdown; only store failures surface as errors.
package playermetrics

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

// Engine computes player metrics against a store.
type Engine struct {
	store repository.PlayerReader
	cfg   config.PlayerFormula
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
func New(store repository.PlayerReader, cfg config.PlayerFormula, opts ...Option) *Engine {
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

// ComputeAll computes every metric for one player and assembles the
// versioned ClutchScore. tournamentID may be empty for a sweep that is not
// tied to an event; Course Fit requires it. The four metrics run
// concurrently and join deterministically.
func (e *Engine) ComputeAll(ctx context.Context, playerID, tournamentID string, cache *FieldStrengthCache) (model.ClutchScore, error) {
	if cache == nil {
		cache = NewFieldStrengthCache()
	}

	var (
		wg sync.WaitGroup

		cpi          *float64
		cpiBreak     *model.CPIBreakdown
		cpiErr       error
		form         *float64
		formBreak    *model.FormBreakdown
		formErr      error
		pressure     *float64
		pressBreak   *model.PressureBreakdown
		pressErr     error
		courseFit    *float64
		fitBreak     *model.CourseFitBreakdown
		courseFitErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		cpi, cpiBreak, cpiErr = e.CPI(ctx, playerID, cache)
	}()
	go func() {
		defer wg.Done()
		form, formBreak, formErr = e.FormScore(ctx, playerID, cache)
	}()
	go func() {
		defer wg.Done()
		pressure, pressBreak, pressErr = e.PressureScore(ctx, playerID)
	}()
	go func() {
		defer wg.Done()
		courseFit, fitBreak, courseFitErr = e.CourseFitScore(ctx, playerID, tournamentID)
	}()
	wg.Wait()

	for _, err := range []error{cpiErr, formErr, pressErr, courseFitErr} {
		if err != nil {
			return model.ClutchScore{}, fmt.Errorf("compute metrics for player %s: %w", playerID, err)
		}
	}

	e.log.Debug(ctx, "player metrics computed",
		logger.String("player", playerID),
		logger.String("tournament", tournamentID))

	return model.ClutchScore{
		PlayerID:       playerID,
		TournamentID:   tournamentID,
		FormulaVersion: config.PlayerFormulaVersion,
		CPI:            cpi,
		FormScore:      form,
		PressureScore:  pressure,
		CourseFitScore: courseFit,
		Components: model.ClutchComponents{
			CPI:       cpiBreak,
			Form:      formBreak,
			Pressure:  pressBreak,
			CourseFit: fitBreak,
			Constants: e.constants(),
		},
		ComputedAt: e.now().UTC(),
	}, nil
}

// constants snapshots the formula inputs into the audit trail.
func (e *Engine) constants() map[string]float64 {
	c := e.cfg
	m := map[string]float64{
		"cpi.weightOffTee":       c.CPI.WeightOffTee,
		"cpi.weightApproach":     c.CPI.WeightApproach,
		"cpi.weightAroundGreen":  c.CPI.WeightAroundGreen,
		"cpi.weightPutting":      c.CPI.WeightPutting,
		"cpi.sampleBonusWeight":  c.CPI.SampleBonusWeight,
		"cpi.sampleBonusFactor":  c.CPI.SampleBonusFactor,
		"cpi.weeklyDecay":        c.CPI.WeeklyDecay,
		"cpi.fieldMultMin":       c.CPI.FieldMultMin,
		"cpi.fieldMultMax":       c.CPI.FieldMultMax,
		"cpi.meanShrink":         c.CPI.MeanShrink,
		"form.fieldMultMin":      c.Form.FieldMultMin,
		"form.fieldMultMax":      c.Form.FieldMultMax,
		"form.multMajor":         c.Form.MultMajor,
		"form.multPlayoff":       c.Form.MultPlayoff,
		"form.multSignature":     c.Form.MultSignature,
		"pressure.scale":         c.Pressure.Scale,
		"courseFit.qualityFloor": c.CourseFit.QualityFloor,
		"courseFit.qualitySpan":  c.CourseFit.QualitySpan,
		"courseFit.historyScale": c.CourseFit.HistoryScale,
	}
	for i, w := range c.Form.Weights {
		m[fmt.Sprintf("form.weight%d", i)] = w
	}
	return m
}
