package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/flashstudy/backend/internal/domain"
)

func TestService_BuildCandidates_CohortOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID, deckID := uuid.New(), uuid.New()

	// Deliberately interleaved due times across cohorts: the overdue review
	// card is "more overdue" than any learning card, yet learning goes first.
	learnA := learningCard(userID, deckID, testNow.Add(-5*time.Minute))
	learnB := learningCard(userID, deckID, testNow.Add(2*time.Hour))
	reviewA := reviewCard(userID, deckID, testNow.AddDate(0, 0, -3))
	reviewB := reviewCard(userID, deckID, testNow.Add(-time.Hour))
	newA := newCard(userID, deckID, testNow.AddDate(0, 0, -2))
	newB := newCard(userID, deckID, testNow.AddDate(0, 0, -1))

	m := newTestMocks(userID, deckID)
	m.cards.ListLearningFunc = func(ctx context.Context, u, d uuid.UUID, dueBefore time.Time) ([]domain.Card, error) {
		// Store order scrambled on purpose.
		return []domain.Card{learnB, learnA}, nil
	}
	m.cards.ListReviewDueFunc = func(ctx context.Context, u, d uuid.UUID, now time.Time) ([]domain.Card, error) {
		return []domain.Card{reviewB, reviewA}, nil
	}
	m.cards.ListNewFunc = func(ctx context.Context, u, d uuid.UUID, limit int) ([]domain.Card, error) {
		return []domain.Card{newB, newA}, nil
	}
	svc := newTestService(t, m)

	queue, err := svc.BuildCandidates(ctx, StartSessionInput{UserID: userID, DeckID: deckID, Now: testNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []uuid.UUID{learnA.ID, learnB.ID, reviewA.ID, reviewB.ID, newA.ID, newB.ID}
	if len(queue) != len(want) {
		t.Fatalf("queue length = %d, want %d", len(queue), len(want))
	}
	for i, id := range want {
		if queue[i].ID != id {
			t.Errorf("position %d: got card %v, want %v", i, queue[i].ID, id)
		}
	}
}

func TestService_BuildCandidates_UnknownDeckFailsSoft(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID, deckID := uuid.New(), uuid.New()

	m := newTestMocks(userID, deckID)
	svc := newTestService(t, m)

	queue, err := svc.BuildCandidates(ctx, StartSessionInput{
		UserID: userID, DeckID: uuid.New(), Now: testNow,
	})
	if err != nil {
		t.Fatalf("unknown deck must not error, got: %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("queue length = %d, want 0", len(queue))
	}
}

func TestService_BuildCandidates_ForeignDeckFailsSoft(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID, deckID := uuid.New(), uuid.New()

	m := newTestMocks(userID, deckID)
	svc := newTestService(t, m)

	// Right deck, wrong user: same observable behavior as unknown deck.
	queue, err := svc.BuildCandidates(ctx, StartSessionInput{
		UserID: uuid.New(), DeckID: deckID, Now: testNow,
	})
	if err != nil {
		t.Fatalf("foreign deck must not error, got: %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("queue length = %d, want 0", len(queue))
	}
}

func TestService_BuildCandidates_MaxNewCapPassedToStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID, deckID := uuid.New(), uuid.New()

	var gotLimit int
	m := newTestMocks(userID, deckID)
	m.cards.ListNewFunc = func(ctx context.Context, u, d uuid.UUID, limit int) ([]domain.Card, error) {
		gotLimit = limit
		return nil, nil
	}
	svc := newTestService(t, m)

	if _, err := svc.BuildCandidates(ctx, StartSessionInput{
		UserID: userID, DeckID: deckID, Now: testNow, MaxNew: 5,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 5 {
		t.Errorf("new-cohort limit = %d, want 5", gotLimit)
	}

	if _, err := svc.BuildCandidates(ctx, StartSessionInput{
		UserID: userID, DeckID: deckID, Now: testNow,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != DefaultMaxNew {
		t.Errorf("default new-cohort limit = %d, want %d", gotLimit, DefaultMaxNew)
	}
}

func TestService_BuildCandidates_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID, deckID := uuid.New(), uuid.New()
	boom := errors.New("connection reset")

	m := newTestMocks(userID, deckID)
	m.cards.ListReviewDueFunc = func(ctx context.Context, u, d uuid.UUID, now time.Time) ([]domain.Card, error) {
		return nil, boom
	}
	svc := newTestService(t, m)

	_, err := svc.BuildCandidates(ctx, StartSessionInput{UserID: userID, DeckID: deckID, Now: testNow})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}

func TestPartitionQueue_Predicates(t *testing.T) {
	t.Parallel()

	userID, deckID := uuid.New(), uuid.New()
	dayEnd := NextDayStart(testNow, time.UTC)

	futureReview := reviewCard(userID, deckID, testNow.Add(time.Hour))
	tomorrowLearning := learningCard(userID, deckID, dayEnd.Add(time.Minute))
	deleted := reviewCard(userID, deckID, testNow.Add(-time.Hour))
	deletedAt := testNow
	deleted.DeletedAt = &deletedAt
	relearning := learningCard(userID, deckID, testNow.Add(30*time.Minute))
	relearning.State = domain.CardStateRelearning
	relearning.Lapses = 1

	queue := partitionQueue([]domain.Card{futureReview, tomorrowLearning, deleted, relearning}, testNow, dayEnd)

	if len(queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(queue))
	}
	if queue[0].ID != relearning.ID {
		t.Errorf("expected only the relearning card to qualify, got %v", queue[0].ID)
	}
}

func TestPartitionQueue_TieBreakByID(t *testing.T) {
	t.Parallel()

	userID, deckID := uuid.New(), uuid.New()
	dayEnd := NextDayStart(testNow, time.UTC)
	due := testNow.Add(-time.Hour)

	a := reviewCard(userID, deckID, due)
	b := reviewCard(userID, deckID, due)

	first := partitionQueue([]domain.Card{a, b}, testNow, dayEnd)
	second := partitionQueue([]domain.Card{b, a}, testNow, dayEnd)

	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Error("equal due times must order deterministically regardless of input order")
	}
}
