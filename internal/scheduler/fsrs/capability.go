package fsrs

import (
	"fmt"
	"time"

	"github.com/flashstudy/backend/internal/domain"
)

// Scheduler adapts the FSRS model to the scheduling capability consumed by
// the study service: Commit transforms one card's memory state for one
// rating, Preview returns the prospective outcome for every rating without
// committing. Both are pure.
type Scheduler struct {
	params Parameters
}

// NewScheduler validates the weights and returns a Scheduler.
func NewScheduler(params Parameters) (*Scheduler, error) {
	if err := ValidateWeights(params.W); err != nil {
		return nil, fmt.Errorf("invalid FSRS weights: %w", err)
	}
	return &Scheduler{params: params}, nil
}

// Commit computes the updated memory state for the given rating and review
// timestamp. reps increments by exactly 1; lapses increments by exactly 1
// only on Again from a non-New state.
func (s *Scheduler) Commit(card domain.Card, rating domain.Rating, now time.Time) (domain.SRSUpdateParams, error) {
	updated, err := ReviewCard(s.params, fromDomain(card, now), rating, now)
	if err != nil {
		return domain.SRSUpdateParams{}, err
	}
	return toUpdateParams(updated), nil
}

// Preview computes the prospective outcome for each of the four ratings
// against the same state and timestamp, in ascending rating order.
func (s *Scheduler) Preview(card domain.Card, now time.Time) (domain.SchedulePreview, error) {
	preview := domain.SchedulePreview{
		CardID:  card.ID,
		Options: make([]domain.PreviewOption, 0, len(domain.Ratings)),
	}

	state := fromDomain(card, now)
	for _, rating := range domain.Ratings {
		updated, err := ReviewCard(s.params, state, rating, now)
		if err != nil {
			return domain.SchedulePreview{}, err
		}
		preview.Options = append(preview.Options, domain.PreviewOption{
			Rating:        rating,
			Due:           updated.Due,
			ScheduledDays: updated.ScheduledDays,
			State:         updated.State,
		})
	}

	return preview, nil
}

// fromDomain projects a domain card onto the model's state tuple. The store
// persists elapsed_days as of the last commit, so the actual elapsed time
// since last_review is recomputed here for the retrievability calculation.
func fromDomain(card domain.Card, now time.Time) Card {
	c := Card{
		State:         card.State,
		Step:          card.Step,
		Stability:     card.Stability,
		Difficulty:    card.Difficulty,
		Due:           card.Due,
		LastReview:    card.LastReview,
		Reps:          card.Reps,
		Lapses:        card.Lapses,
		ScheduledDays: card.ScheduledDays,
		ElapsedDays:   card.ElapsedDays,
	}

	if card.LastReview != nil {
		elapsed := now.Sub(*card.LastReview).Hours() / 24
		if elapsed < 0 {
			elapsed = 0
		}
		c.ElapsedDays = elapsed
	}

	return c
}

func toUpdateParams(card Card) domain.SRSUpdateParams {
	return domain.SRSUpdateParams{
		State:         card.State,
		Step:          card.Step,
		Stability:     card.Stability,
		Difficulty:    card.Difficulty,
		Due:           card.Due,
		LastReview:    card.LastReview,
		Reps:          card.Reps,
		Lapses:        card.Lapses,
		ScheduledDays: card.ScheduledDays,
		ElapsedDays:   card.ElapsedDays,
	}
}
