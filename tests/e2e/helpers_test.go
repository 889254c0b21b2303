//go:build e2e

package e2e_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/flashstudy/backend/internal/adapter/postgres"
	"github.com/flashstudy/backend/internal/adapter/postgres/card"
	"github.com/flashstudy/backend/internal/adapter/postgres/deck"
	"github.com/flashstudy/backend/internal/adapter/postgres/reviewlog"
	"github.com/flashstudy/backend/internal/adapter/postgres/testhelper"
	"github.com/flashstudy/backend/internal/domain"
	"github.com/flashstudy/backend/internal/scheduler/fsrs"
	"github.com/flashstudy/backend/internal/service/collection"
	"github.com/flashstudy/backend/internal/service/study"
)

// engine wires the real repositories and services against the shared test
// database, one fresh user per call.
type engine struct {
	Pool       *pgxpool.Pool
	Study      *study.Service
	Collection *collection.Service
	UserID     uuid.UUID
}

func setupEngine(t *testing.T) *engine {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	txm := postgres.NewTxManager(pool)
	cardRepo := card.New(pool)
	deckRepo := deck.New(pool)
	reviewRepo := reviewlog.New(pool)

	// Fuzz off so interval expectations are exact.
	params := fsrs.DefaultParameters()
	params.EnableFuzz = false

	sched, err := fsrs.NewScheduler(params)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	studySvc, err := study.NewService(logger, cardRepo, reviewRepo, deckRepo, txm, sched, domain.SRSConfig{
		NewCardsPerSession: study.DefaultMaxNew,
	})
	require.NoError(t, err)

	return &engine{
		Pool:       pool,
		Study:      studySvc,
		Collection: collection.NewService(logger, deckRepo, cardRepo, txm),
		UserID:     uuid.New(),
	}
}
