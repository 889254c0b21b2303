// Package card implements the Card repository using PostgreSQL.
// Fixed-shape queries use raw SQL constants; the cohort list queries share
// a squirrel builder because their predicates vary by state and due bound.
package card

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashstudy/backend/internal/adapter/postgres"
	"github.com/flashstudy/backend/internal/domain"
)

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const cardColumns = `id, user_id, deck_id, prompt, answer, state, step,
       stability, difficulty, elapsed_days, scheduled_days, reps, lapses,
       due, last_review, created_at, updated_at, deleted_at`

// ---------------------------------------------------------------------------
// Raw SQL for fixed-shape queries
// ---------------------------------------------------------------------------

const getByIDSQL = `
SELECT ` + cardColumns + `
FROM cards
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

const insertSQL = `
INSERT INTO cards (id, user_id, deck_id, prompt, answer, state, due, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING ` + cardColumns

const updateSRSSQL = `
UPDATE cards
SET state = $3, step = $4, stability = $5, difficulty = $6,
    elapsed_days = $7, scheduled_days = $8, reps = $9, lapses = $10,
    due = $11, last_review = $12, updated_at = $13
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
RETURNING ` + cardColumns

const softDeleteSQL = `
UPDATE cards
SET deleted_at = $3, updated_at = $3
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

const softDeleteByDeckSQL = `
UPDATE cards
SET deleted_at = $3, updated_at = $3
WHERE deck_id = $1 AND user_id = $2 AND deleted_at IS NULL`

const hardDeleteOldSQL = `
DELETE FROM cards
WHERE deleted_at IS NOT NULL AND deleted_at < $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a card by primary key filtered by user_id.
// Soft-deleted cards are invisible.
func (r *Repo) GetByID(ctx context.Context, userID, cardID uuid.UUID) (domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, cardID, userID)
	card, err := scanCard(row)
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", cardID)
	}

	return card, nil
}

// ListLearning returns LEARNING and RELEARNING cards due before the given
// bound, ordered by due time.
func (r *Repo) ListLearning(ctx context.Context, userID, deckID uuid.UUID, dueBefore time.Time) ([]domain.Card, error) {
	b := listBuilder(userID, deckID).
		Where(sq.Eq{"state": []string{
			string(domain.CardStateLearning),
			string(domain.CardStateRelearning),
		}}).
		Where(sq.Lt{"due": dueBefore}).
		OrderBy("due ASC", "id ASC")

	cards, err := r.list(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("list learning cards: %w", err)
	}
	return cards, nil
}

// ListReviewDue returns REVIEW cards whose due time has passed, ordered by
// due time.
func (r *Repo) ListReviewDue(ctx context.Context, userID, deckID uuid.UUID, now time.Time) ([]domain.Card, error) {
	b := listBuilder(userID, deckID).
		Where(sq.Eq{"state": string(domain.CardStateReview)}).
		Where(sq.LtOrEq{"due": now}).
		OrderBy("due ASC", "id ASC")

	cards, err := r.list(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("list due review cards: %w", err)
	}
	return cards, nil
}

// ListNew returns NEW cards in creation order, capped at limit.
func (r *Repo) ListNew(ctx context.Context, userID, deckID uuid.UUID, limit int) ([]domain.Card, error) {
	b := listBuilder(userID, deckID).
		Where(sq.Eq{"state": string(domain.CardStateNew)}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit))

	cards, err := r.list(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("list new cards: %w", err)
	}
	return cards, nil
}

// ListByDeck returns all live cards of a deck in creation order.
func (r *Repo) ListByDeck(ctx context.Context, userID, deckID uuid.UUID) ([]domain.Card, error) {
	b := listBuilder(userID, deckID).OrderBy("created_at ASC", "id ASC")

	cards, err := r.list(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("list deck cards: %w", err)
	}
	return cards, nil
}

// listBuilder is the shared base for all cohort queries: live cards of one
// user in one deck.
func listBuilder(userID, deckID uuid.UUID) sq.SelectBuilder {
	return sq.Select(cardColumns).
		From("cards").
		Where(sq.Eq{"user_id": userID, "deck_id": deckID}).
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.Card, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCards(rows)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new card in state NEW. Due is set to the creation
// timestamp so the due column never carries NULL.
func (r *Repo) Create(ctx context.Context, userID, deckID uuid.UUID, prompt, answer string) (domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	id := uuid.New()

	row := querier.QueryRow(ctx, insertSQL,
		id, userID, deckID, prompt, answer, string(domain.CardStateNew), now, now)
	card, err := scanCard(row)
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", id)
	}

	return card, nil
}

// UpdateSRS writes the full post-review memory state and returns the
// persisted card. Returns domain.ErrNotFound if the card does not exist or
// belongs to another user.
func (r *Repo) UpdateSRS(ctx context.Context, userID, cardID uuid.UUID, params domain.SRSUpdateParams) (domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, updateSRSSQL,
		cardID, userID,
		string(params.State), params.Step, params.Stability, params.Difficulty,
		params.ElapsedDays, params.ScheduledDays, params.Reps, params.Lapses,
		params.Due, params.LastReview, now,
	)
	card, err := scanCard(row)
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", cardID)
	}

	return card, nil
}

// SoftDelete marks a card deleted. Review logs stay untouched; history
// survives card deletion.
func (r *Repo) SoftDelete(ctx context.Context, userID, cardID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	tag, err := querier.Exec(ctx, softDeleteSQL, cardID, userID, now)
	if err != nil {
		return postgres.MapError(err, "card", cardID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
	}

	return nil
}

// SoftDeleteByDeck marks all live cards of a deck deleted. Used by the deck
// soft-delete cascade; deleting an empty deck is not an error.
func (r *Repo) SoftDeleteByDeck(ctx context.Context, userID, deckID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	tag, err := querier.Exec(ctx, softDeleteByDeckSQL, deckID, userID, now)
	if err != nil {
		return 0, postgres.MapError(err, "deck", deckID)
	}

	return int(tag.RowsAffected()), nil
}

// HardDeleteOld physically removes soft-deleted cards whose deletion is
// older than the threshold. Review logs go with them via the foreign key
// cascade.
func (r *Repo) HardDeleteOld(ctx context.Context, threshold time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, hardDeleteOldSQL, threshold)
	if err != nil {
		return 0, fmt.Errorf("hard delete cards: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanCard(row pgx.Row) (domain.Card, error) {
	var (
		c     domain.Card
		state string
	)
	err := row.Scan(
		&c.ID, &c.UserID, &c.DeckID, &c.Prompt, &c.Answer, &state, &c.Step,
		&c.Stability, &c.Difficulty, &c.ElapsedDays, &c.ScheduledDays,
		&c.Reps, &c.Lapses, &c.Due, &c.LastReview,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return domain.Card{}, err
	}
	c.State = domain.CardState(state)

	return c, nil
}

func scanCards(rows pgx.Rows) ([]domain.Card, error) {
	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if cards == nil {
		cards = []domain.Card{}
	}

	return cards, nil
}
