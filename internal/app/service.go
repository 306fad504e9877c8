// Package service wires the store, the two rating engines, and the batch
// runner into one facade consumed by the CLI and by external schedulers.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clutchgolf/engine/internal/adapters/repository"
	"github.com/clutchgolf/engine/internal/batch"
	"github.com/clutchgolf/engine/internal/config"
	"github.com/clutchgolf/engine/internal/domain/managerrating"
	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/internal/domain/playermetrics"
	"github.com/clutchgolf/engine/pkg/logger"
)

// Service exposes the rating engine operations.
type Service struct {
	mu sync.Mutex

	cfg   *config.Config
	store repository.Store
	now   func() time.Time
	log   logger.Logger

	players  *playermetrics.Engine
	managers *managerrating.Engine
	runner   *batch.Runner

	started bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects the data store. Required before Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock overrides the time source used by the engines.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a Service from configuration and options.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the engines. It is idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.store == nil {
		return fmt.Errorf("service requires a store")
	}
	if s.log == nil {
		s.log = logger.Get().Named("service")
	}

	s.players = playermetrics.New(s.store, s.cfg.Player,
		playermetrics.WithClock(s.now),
		playermetrics.WithLogger(s.log.Named("playermetrics")),
	)
	s.managers = managerrating.New(s.store, s.cfg.Manager,
		managerrating.WithClock(s.now),
		managerrating.WithLogger(s.log.Named("managerrating")),
	)
	s.runner = batch.New(s.store, s.players, s.managers,
		batch.WithClock(s.now),
		batch.WithLogger(s.log.Named("batch")),
	)

	s.started = true
	s.log.Info(ctx, "rating service started")
	return nil
}

// ComputePlayer computes one player's metrics on demand without persisting.
// Unlike batch sweeps, errors propagate to the caller.
func (s *Service) ComputePlayer(ctx context.Context, playerID, tournamentID string) (model.ClutchScore, error) {
	if err := s.ensureStarted(ctx); err != nil {
		return model.ClutchScore{}, err
	}
	return s.players.ComputeAll(ctx, playerID, tournamentID, playermetrics.NewFieldStrengthCache())
}

// ComputeManager computes one user's rating on demand without persisting.
func (s *Service) ComputeManager(ctx context.Context, userID string) (model.ClutchManagerRating, error) {
	if err := s.ensureStarted(ctx); err != nil {
		return model.ClutchManagerRating{}, err
	}
	return s.managers.Compute(ctx, userID)
}

// RunPlayerSweep rates a player population and persists the results.
func (s *Service) RunPlayerSweep(ctx context.Context, tournamentID string) (batch.Report, error) {
	if err := s.ensureStarted(ctx); err != nil {
		return batch.Report{}, err
	}
	return s.runner.PlayerSweep(ctx, tournamentID)
}

// RunManagerSweep rates every ratable user and persists the results.
func (s *Service) RunManagerSweep(ctx context.Context) (batch.Report, error) {
	if err := s.ensureStarted(ctx); err != nil {
		return batch.Report{}, err
	}
	return s.runner.ManagerSweep(ctx)
}

func (s *Service) ensureStarted(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		return nil
	}
	return s.Start(ctx)
}
