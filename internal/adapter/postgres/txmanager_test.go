package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashstudy/backend/internal/adapter/postgres"
	"github.com/flashstudy/backend/internal/adapter/postgres/testhelper"
)

// deckExists checks whether a deck row with the given ID exists in the database.
func deckExists(t *testing.T, pool *pgxpool.Pool, deckID uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM decks WHERE id = $1)`,
		deckID,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("deckExists query: %v", err)
	}
	return exists
}

func insertDeck(ctx context.Context, q postgres.Querier, deckID uuid.UUID) error {
	_, err := q.Exec(ctx,
		`INSERT INTO decks (id, user_id, name, created_at) VALUES ($1, $2, $3, now())`,
		deckID, uuid.New(), "tx-test",
	)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	deckID := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertDeck(ctx, postgres.QuerierFromCtx(ctx, pool), deckID)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !deckExists(t, pool, deckID) {
		t.Fatal("expected deck to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	deckID := uuid.New()
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if execErr := insertDeck(ctx, postgres.QuerierFromCtx(ctx, pool), deckID); execErr != nil {
			t.Fatalf("insert inside tx failed: %v", execErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if deckExists(t, pool, deckID) {
		t.Fatal("expected deck NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	deckID := uuid.New()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		// Verify data was rolled back.
		if deckExists(t, pool, deckID) {
			t.Fatal("expected deck NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertDeck(ctx, postgres.QuerierFromCtx(ctx, pool), deckID); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	deckID := uuid.New()

	// Insert inside a transaction, then verify it's visible within the same tx.
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := insertDeck(ctx, q, deckID); err != nil {
			return err
		}

		var exists bool
		err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM decks WHERE id = $1)`, deckID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			t.Fatal("expected deck to be visible within the transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	// After commit, also visible outside.
	if !deckExists(t, pool, deckID) {
		t.Fatal("expected deck to exist after committed transaction")
	}
}
