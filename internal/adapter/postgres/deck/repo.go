// Package deck implements the Deck repository using PostgreSQL.
// The scheduling engine reads decks only for ownership checks; writes exist
// for collection management and the soft-delete cascade.
package deck

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashstudy/backend/internal/adapter/postgres"
	"github.com/flashstudy/backend/internal/domain"
)

// Repo provides deck persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new deck repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const deckColumns = `id, user_id, name, created_at, deleted_at`

const insertSQL = `
INSERT INTO decks (id, user_id, name, created_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + deckColumns

const getByIDSQL = `
SELECT ` + deckColumns + `
FROM decks
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

const listByUserSQL = `
SELECT ` + deckColumns + `
FROM decks
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at ASC`

const softDeleteSQL = `
UPDATE decks
SET deleted_at = $3
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

const hardDeleteOldSQL = `
DELETE FROM decks
WHERE deleted_at IS NOT NULL
  AND deleted_at < $1
  AND NOT EXISTS (SELECT 1 FROM cards WHERE cards.deck_id = decks.id)`

// Create inserts a new deck.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, name string) (domain.Deck, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	id := uuid.New()

	row := querier.QueryRow(ctx, insertSQL, id, userID, name, now)
	deck, err := scanDeck(row)
	if err != nil {
		return domain.Deck{}, postgres.MapError(err, "deck", id)
	}

	return deck, nil
}

// GetByID returns a deck by primary key filtered by user_id. A deck owned
// by someone else is indistinguishable from a missing one.
func (r *Repo) GetByID(ctx context.Context, userID, deckID uuid.UUID) (domain.Deck, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, deckID, userID)
	deck, err := scanDeck(row)
	if err != nil {
		return domain.Deck{}, postgres.MapError(err, "deck", deckID)
	}

	return deck, nil
}

// ListByUser returns all live decks of a user in creation order.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []domain.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decks: %w", err)
	}

	if decks == nil {
		decks = []domain.Deck{}
	}

	return decks, nil
}

// SoftDelete marks a deck deleted. Cards are cascaded separately inside the
// same transaction by the caller.
func (r *Repo) SoftDelete(ctx context.Context, userID, deckID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	tag, err := querier.Exec(ctx, softDeleteSQL, deckID, userID, now)
	if err != nil {
		return postgres.MapError(err, "deck", deckID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deck %s: %w", deckID, domain.ErrNotFound)
	}

	return nil
}

// HardDeleteOld physically removes soft-deleted decks whose deletion is
// older than the threshold. Decks that still have card rows are skipped
// until the card purge has cleared them.
func (r *Repo) HardDeleteOld(ctx context.Context, threshold time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, hardDeleteOldSQL, threshold)
	if err != nil {
		return 0, fmt.Errorf("hard delete decks: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanDeck(row pgx.Row) (domain.Deck, error) {
	var d domain.Deck
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.CreatedAt, &d.DeletedAt)
	if err != nil {
		return domain.Deck{}, err
	}
	return d, nil
}
