package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/clutchgolf/engine/internal/adapters/repository"
	"github.com/clutchgolf/engine/internal/domain/managerrating"
	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/internal/domain/playermetrics"
	"github.com/clutchgolf/engine/pkg/logger"
	"github.com/clutchgolf/engine/pkg/metrics"
)

// Runner iterates an engine over a population. Entities are processed
// strictly one at a time: one entity's read, compute, and persist complete
// before the next begins, keeping memory bounded and failure isolation
// simple.
type Runner struct {
	store    repository.Store
	players  *playermetrics.Engine
	managers *managerrating.Engine
	now      func() time.Time
	log      logger.Logger
	metrics  *metrics.Manager
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithClock overrides the runner's time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMetrics sets a custom metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// New creates a Runner over the given store and engines.
func New(store repository.Store, players *playermetrics.Engine, managers *managerrating.Engine, opts ...Option) *Runner {
	r := &Runner{
		store:    store,
		players:  players,
		managers: managers,
		now:      time.Now,
		metrics:  metrics.Get(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get().Named("batch")
	}
	return r
}

// PlayerSweep computes and persists ClutchScores for a population of
// players: the field of tournamentID when given, otherwise every active
// player. Field strength is memoized once per tournament for the whole run.
func (r *Runner) PlayerSweep(ctx context.Context, tournamentID string) (Report, error) {
	started := r.now()
	report := newReport(SweepPlayers, started)

	playerIDs, err := r.playerPopulation(ctx, tournamentID)
	if err != nil {
		return report, fmt.Errorf("resolve player population: %w", err)
	}

	// One cache per run; it dies with this sweep.
	cache := playermetrics.NewFieldStrengthCache()

	for _, playerID := range playerIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		computeStart := r.now()
		score, err := r.players.ComputeAll(ctx, playerID, tournamentID, cache)
		if err == nil {
			err = r.store.UpsertClutchScore(ctx, score)
		}
		r.metrics.RecordCompute(SweepPlayers, r.now().Sub(computeStart))
		if err != nil {
			report.recordFailure(playerID, err)
			r.metrics.RecordSkipped(SweepPlayers)
			r.metrics.RecordStoreError()
			r.log.Warn(ctx, "player skipped",
				logger.String("player", playerID), logger.Error(err))
			continue
		}
		report.recordSuccess()
		r.metrics.RecordProcessed(SweepPlayers)
	}

	report.Finished = r.now()
	r.metrics.RecordSweep(SweepPlayers, report.Finished.Sub(started), report.Finished)
	r.log.Info(ctx, "player sweep finished",
		logger.String("run", report.RunID),
		logger.Int("succeeded", report.Succeeded),
		logger.Int("skipped", report.Skipped))
	return report, nil
}

// ManagerSweep computes and persists manager ratings for every user with
// any ratable data, recording one rating snapshot per user per calendar day.
func (r *Runner) ManagerSweep(ctx context.Context) (Report, error) {
	started := r.now()
	report := newReport(SweepManagers, started)

	userIDs, err := r.store.RatableUserIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("resolve manager population: %w", err)
	}

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		computeStart := r.now()
		err := r.rateManager(ctx, userID)
		r.metrics.RecordCompute(SweepManagers, r.now().Sub(computeStart))
		if err != nil {
			report.recordFailure(userID, err)
			r.metrics.RecordSkipped(SweepManagers)
			r.metrics.RecordStoreError()
			r.log.Warn(ctx, "manager skipped",
				logger.String("user", userID), logger.Error(err))
			continue
		}
		report.recordSuccess()
		r.metrics.RecordProcessed(SweepManagers)
	}

	report.Finished = r.now()
	r.metrics.RecordSweep(SweepManagers, report.Finished.Sub(started), report.Finished)
	r.log.Info(ctx, "manager sweep finished",
		logger.String("run", report.RunID),
		logger.Int("succeeded", report.Succeeded),
		logger.Int("skipped", report.Skipped))
	return report, nil
}

// rateManager performs one user's read, compute, and all-or-nothing persist.
func (r *Runner) rateManager(ctx context.Context, userID string) error {
	rating, err := r.managers.Compute(ctx, userID)
	if err != nil {
		return err
	}
	if err := r.store.UpsertManagerRating(ctx, rating); err != nil {
		return err
	}
	if rating.Overall == nil {
		return nil
	}
	return r.store.UpsertRatingSnapshot(ctx, model.RatingSnapshot{
		UserID:    userID,
		Day:       model.SnapshotDay(rating.ComputedAt),
		Rating:    *rating.Overall,
		CreatedAt: rating.ComputedAt,
	})
}

// playerPopulation resolves the player ids for a sweep.
func (r *Runner) playerPopulation(ctx context.Context, tournamentID string) ([]string, error) {
	if tournamentID == "" {
		players, err := r.store.ActivePlayers(ctx, 0)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(players))
		for _, p := range players {
			ids = append(ids, p.ID)
		}
		return ids, nil
	}
	field, err := r.store.TournamentField(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(field))
	for _, entry := range field {
		ids = append(ids, entry.PlayerID)
	}
	return ids, nil
}
