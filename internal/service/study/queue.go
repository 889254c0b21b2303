package study

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/flashstudy/backend/internal/domain"
)

// schedulerRetryDelay separates the single retry of a failed scheduling
// call from the first attempt.
const schedulerRetryDelay = 50 * time.Millisecond

// SessionQueue is the in-memory working set of one study session. It is
// safe for concurrent use; every mutation re-partitions the remaining cards
// so the cohort ordering holds after each answer.
//
// The queue is a cache of the store, never the other way around: review
// commits go through the service's transactional path, and Reconcile can
// re-derive the queue from the store at any point.
type SessionQueue struct {
	mu     sync.Mutex
	svc    *Service
	userID uuid.UUID
	deckID uuid.UUID
	maxNew int
	tz     *time.Location
	cards  []domain.Card
}

// StartSession builds a session queue for a deck. An unknown or foreign
// deck yields an empty queue, mirroring the fail-soft selection path.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (*SessionQueue, error) {
	candidates, err := s.BuildCandidates(ctx, input)
	if err != nil {
		return nil, err
	}

	return &SessionQueue{
		svc:    s,
		userID: input.UserID,
		deckID: input.DeckID,
		maxNew: input.effectiveMaxNew(s.cfg),
		tz:     ParseTimezone(input.Timezone),
		cards:  candidates,
	}, nil
}

// Peek returns the card at the front of the queue without consuming it.
func (q *SessionQueue) Peek() (domain.Card, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.cards) == 0 {
		return domain.Card{}, domain.ErrEmptyQueue
	}
	return q.cards[0], nil
}

// Len returns the number of cards remaining in the queue.
func (q *SessionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cards)
}

// Cards returns a copy of the queued cards in session order.
func (q *SessionQueue) Cards() []domain.Card {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]domain.Card, len(q.cards))
	copy(out, q.cards)
	return out
}

// Answer grades the card at the front of the queue, commits the outcome,
// and advances the queue. If the new due time still falls before the end
// of the session's day the card re-enters the queue in its new cohort
// position; otherwise it leaves the session.
//
// A failing scheduler is retried once; if it still fails nothing is
// written and the card stays at the front.
func (q *SessionQueue) Answer(ctx context.Context, input AnswerInput) (domain.Card, error) {
	if err := input.Validate(); err != nil {
		return domain.Card{}, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.cards) == 0 {
		return domain.Card{}, domain.ErrEmptyQueue
	}

	front := q.cards[0]
	if input.CardID != uuid.Nil && input.CardID != front.ID {
		return domain.Card{}, domain.NewValidationError("card_id",
			fmt.Sprintf("card %s is not at the front of the queue", input.CardID))
	}

	update, err := q.schedule(front, input.Rating, input.Now)
	if err != nil {
		q.svc.log.ErrorContext(ctx, "scheduler failed, answer not committed",
			slog.String("card_id", front.ID.String()),
			slog.String("rating", input.Rating.String()),
			slog.Any("error", err),
		)
		return domain.Card{}, fmt.Errorf("%w: %v", domain.ErrSchedulerUnavailable, err)
	}

	updated, err := q.svc.commitReview(ctx, front, input.Rating, update)
	if err != nil {
		return domain.Card{}, err
	}

	remaining := q.cards[1:]
	dayEnd := NextDayStart(input.Now, q.tz)
	if updated.Due.Before(dayEnd) {
		remaining = append(remaining, updated)
	}
	q.cards = partitionQueue(remaining, input.Now, dayEnd)

	return updated, nil
}

// schedule invokes the scheduler capability with a single retry. The
// scheduler is pure, so retrying the identical call is safe.
func (q *SessionQueue) schedule(card domain.Card, rating domain.Rating, now time.Time) (domain.SRSUpdateParams, error) {
	var update domain.SRSUpdateParams

	op := func() error {
		var err error
		update, err = q.svc.sched.Commit(card, rating, now)
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(schedulerRetryDelay), 1)
	if err := backoff.Retry(op, policy); err != nil {
		return domain.SRSUpdateParams{}, err
	}
	return update, nil
}

// Reconcile re-derives the queue from the store and merges it with the
// in-memory state. Cards present in both keep their queue copy, so an
// answer committed through this queue is never re-asked on stale store
// reads; cards that became eligible since the session started are added
// in cohort order.
func (q *SessionQueue) Reconcile(ctx context.Context, now time.Time) error {
	fresh, err := q.svc.BuildCandidates(ctx, StartSessionInput{
		UserID:   q.userID,
		DeckID:   q.deckID,
		Now:      now,
		MaxNew:   q.maxNew,
		Timezone: q.tz.String(),
	})
	if err != nil {
		return fmt.Errorf("rebuild candidates: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	seen := make(map[uuid.UUID]struct{}, len(q.cards))
	merged := make([]domain.Card, 0, len(q.cards)+len(fresh))
	for _, c := range q.cards {
		seen[c.ID] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range fresh {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		merged = append(merged, c)
	}

	q.cards = partitionQueue(merged, now, NextDayStart(now, q.tz))
	return nil
}
