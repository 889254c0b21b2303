package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flashstudy/backend/internal/domain"
)

// commitReview atomically applies a scheduling decision: the card's memory
// state and the review-log row land in one transaction or not at all.
//
// The log is keyed by (card_id, reviewed_at), which makes retried commits
// idempotent at the store level. A key collision means a commit for this
// exact review already exists; if the card state we are about to write
// diverges from it, the caller gets ErrInconsistentCommit instead of a
// silent overwrite.
func (s *Service) commitReview(
	ctx context.Context,
	card domain.Card,
	rating domain.Rating,
	update domain.SRSUpdateParams,
) (domain.Card, error) {
	applied := card
	applied.State = update.State
	applied.Step = update.Step
	applied.Stability = update.Stability
	applied.Difficulty = update.Difficulty
	applied.ElapsedDays = update.ElapsedDays
	applied.ScheduledDays = update.ScheduledDays
	applied.Reps = update.Reps
	applied.Lapses = update.Lapses
	applied.Due = update.Due
	applied.LastReview = update.LastReview

	if err := applied.CheckInvariants(); err != nil {
		return domain.Card{}, fmt.Errorf("scheduled state violates invariants: %w", err)
	}

	var updated domain.Card
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.cards.UpdateSRS(ctx, card.UserID, card.ID, update)
		if err != nil {
			return fmt.Errorf("update card: %w", err)
		}

		entry := domain.ReviewLog{
			ID:                uuid.New(),
			CardID:            card.ID,
			UserID:            card.UserID,
			Rating:            rating,
			Snapshot:          update.Snapshot(),
			PrevScheduledDays: card.ScheduledDays,
			ReviewedAt:        *update.LastReview,
		}
		if _, err := s.reviews.Create(ctx, &entry); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return fmt.Errorf("review already recorded at %s: %w",
					entry.ReviewedAt, domain.ErrInconsistentCommit)
			}
			return fmt.Errorf("create review log: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Card{}, err
	}

	s.log.InfoContext(ctx, "review committed",
		slog.String("card_id", card.ID.String()),
		slog.String("rating", rating.String()),
		slog.String("state", updated.State.String()),
		slog.Time("due", updated.Due),
		slog.Float64("scheduled_days", updated.ScheduledDays),
	)

	return updated, nil
}
