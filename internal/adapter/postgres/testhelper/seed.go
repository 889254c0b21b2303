package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashstudy/backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedDeck creates a deck for the given user and returns the filled domain.Deck.
func SeedDeck(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Deck {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	deck := domain.Deck{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "deck-" + uniqueSuffix(),
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO decks (id, user_id, name, created_at)
		 VALUES ($1, $2, $3, $4)`,
		deck.ID, deck.UserID, deck.Name, deck.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDeck insert deck: %v", err)
	}

	return deck
}

// SeedNewCard creates a NEW card in the given deck. Due defaults to the
// creation timestamp, matching the card repository's insert behavior.
func SeedNewCard(t *testing.T, pool *pgxpool.Pool, userID, deckID uuid.UUID) domain.Card {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	card := domain.Card{
		ID:        uuid.New(),
		UserID:    userID,
		DeckID:    deckID,
		Prompt:    "prompt-" + suffix,
		Answer:    "answer-" + suffix,
		State:     domain.CardStateNew,
		Due:       now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	insertCard(t, pool, card)
	return card
}

// SeedReviewCard creates a REVIEW card with sensible memory state and the
// given due timestamp.
func SeedReviewCard(t *testing.T, pool *pgxpool.Pool, userID, deckID uuid.UUID, due time.Time) domain.Card {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	last := due.AddDate(0, 0, -5).Truncate(time.Microsecond)
	card := domain.Card{
		ID:            uuid.New(),
		UserID:        userID,
		DeckID:        deckID,
		Prompt:        "prompt-" + suffix,
		Answer:        "answer-" + suffix,
		State:         domain.CardStateReview,
		Stability:     5,
		Difficulty:    5,
		ScheduledDays: 5,
		Reps:          3,
		Due:           due.Truncate(time.Microsecond),
		LastReview:    &last,
		CreatedAt:     now.AddDate(0, 0, -30),
		UpdatedAt:     now,
	}

	insertCard(t, pool, card)
	return card
}

// SeedLearningCard creates a LEARNING card due at the given timestamp.
func SeedLearningCard(t *testing.T, pool *pgxpool.Pool, userID, deckID uuid.UUID, due time.Time) domain.Card {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	last := due.Add(-10 * time.Minute).Truncate(time.Microsecond)
	card := domain.Card{
		ID:         uuid.New(),
		UserID:     userID,
		DeckID:     deckID,
		Prompt:     "prompt-" + suffix,
		Answer:     "answer-" + suffix,
		State:      domain.CardStateLearning,
		Stability:  0.5,
		Difficulty: 5,
		Reps:       1,
		Due:        due.Truncate(time.Microsecond),
		LastReview: &last,
		CreatedAt:  now.AddDate(0, 0, -1),
		UpdatedAt:  now,
	}

	insertCard(t, pool, card)
	return card
}

// SeedReviewLog creates a review-log row for the given card.
func SeedReviewLog(t *testing.T, pool *pgxpool.Pool, card domain.Card, rating domain.Rating, reviewedAt time.Time) domain.ReviewLog {
	t.Helper()
	ctx := context.Background()

	entry := domain.ReviewLog{
		ID:     uuid.New(),
		CardID: card.ID,
		UserID: card.UserID,
		Rating: rating,
		Snapshot: domain.ReviewSnapshot{
			State:      card.State,
			Stability:  card.Stability,
			Difficulty: card.Difficulty,
			Reps:       card.Reps,
			Lapses:     card.Lapses,
			Due:        card.Due,
		},
		PrevScheduledDays: card.ScheduledDays,
		ReviewedAt:        reviewedAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO review_logs (id, card_id, user_id, rating, snapshot, prev_scheduled_days, reviewed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.CardID, entry.UserID, string(entry.Rating),
		snapshotJSON(t, entry.Snapshot), entry.PrevScheduledDays, entry.ReviewedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReviewLog insert review_log: %v", err)
	}

	return entry
}

func snapshotJSON(t *testing.T, s domain.ReviewSnapshot) []byte {
	t.Helper()
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("testhelper: marshal snapshot: %v", err)
	}
	return raw
}

func insertCard(t *testing.T, pool *pgxpool.Pool, card domain.Card) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO cards (id, user_id, deck_id, prompt, answer, state, step,
		                    stability, difficulty, elapsed_days, scheduled_days,
		                    reps, lapses, due, last_review, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		card.ID, card.UserID, card.DeckID, card.Prompt, card.Answer,
		string(card.State), card.Step, card.Stability, card.Difficulty,
		card.ElapsedDays, card.ScheduledDays, card.Reps, card.Lapses,
		card.Due, card.LastReview, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: insert card: %v", err)
	}
}
