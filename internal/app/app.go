package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashstudy/backend/internal/adapter/postgres"
	"github.com/flashstudy/backend/internal/adapter/postgres/card"
	"github.com/flashstudy/backend/internal/adapter/postgres/deck"
	"github.com/flashstudy/backend/internal/adapter/postgres/reviewlog"
	"github.com/flashstudy/backend/internal/config"
	"github.com/flashstudy/backend/internal/domain"
	"github.com/flashstudy/backend/internal/scheduler/fsrs"
	"github.com/flashstudy/backend/internal/service/collection"
	"github.com/flashstudy/backend/internal/service/study"
)

// App is the composition root: the database pool and the wired services.
type App struct {
	Pool       *pgxpool.Pool
	Study      *study.Service
	Collection *collection.Service
}

// New connects to the database and wires repositories, the scheduler, and
// the services. The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	txm := postgres.NewTxManager(pool)
	cardRepo := card.New(pool)
	deckRepo := deck.New(pool)
	reviewRepo := reviewlog.New(pool)

	sched, err := fsrs.NewScheduler(schedulerParams(cfg.SRS))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("build scheduler: %w", err)
	}

	studySvc, err := study.NewService(logger, cardRepo, reviewRepo, deckRepo, txm, sched, domain.SRSConfig{
		DesiredRetention:   cfg.SRS.DesiredRetention,
		MaxIntervalDays:    cfg.SRS.MaxIntervalDays,
		EnableFuzz:         cfg.SRS.EnableFuzz,
		LearningSteps:      cfg.SRS.LearningSteps,
		RelearningSteps:    cfg.SRS.RelearningSteps,
		NewCardsPerSession: cfg.SRS.NewCardsPerSession,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("build study service: %w", err)
	}

	collectionSvc := collection.NewService(logger, deckRepo, cardRepo, txm)

	return &App{
		Pool:       pool,
		Study:      studySvc,
		Collection: collectionSvc,
	}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	a.Pool.Close()
}

// Run is the application entry point. It loads configuration, initializes
// the logger, wires the engine, and blocks until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("engine ready",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	<-ctx.Done()
	logger.Info("shutting down")

	return nil
}

// schedulerParams maps the loaded configuration onto model parameters,
// keeping the built-in defaults for anything left unset.
func schedulerParams(srs config.SRSConfig) fsrs.Parameters {
	params := fsrs.DefaultParameters()
	params.DesiredRetention = srs.DesiredRetention
	params.MaxIntervalDays = srs.MaxIntervalDays
	params.EnableFuzz = srs.EnableFuzz

	if len(srs.LearningSteps) > 0 {
		params.LearningSteps = srs.LearningSteps
	}
	if len(srs.RelearningSteps) > 0 {
		params.RelearningSteps = srs.RelearningSteps
	}
	if len(srs.Weights) == 19 {
		copy(params.W[:], srs.Weights)
	}

	return params
}
