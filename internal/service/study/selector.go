package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/flashstudy/backend/internal/domain"
)

// BuildCandidates produces the ordered list of cards eligible for the next
// session: the Learning cohort (due before the caller's end of day, due
// ascending), then the Review cohort (due now, due ascending), then the New
// cohort (creation ascending, capped at max_new).
//
// The concatenation order encodes pedagogical priority. A straight
// due-ascending sort would starve short-interval learning cards behind
// overdue review cards, so the cohorts are ordered, not merged.
//
// An unknown deck or a deck owned by someone else yields an empty result,
// not an error: the selection path fails soft.
func (s *Service) BuildCandidates(ctx context.Context, input StartSessionInput) ([]domain.Card, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.decks.GetByID(ctx, input.UserID, input.DeckID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "candidate selection for unknown deck",
				slog.String("user_id", input.UserID.String()),
				slog.String("deck_id", input.DeckID.String()),
			)
			return []domain.Card{}, nil
		}
		return nil, fmt.Errorf("get deck: %w", err)
	}

	tz := ParseTimezone(input.Timezone)
	dayEnd := NextDayStart(input.Now, tz)

	learning, err := s.cards.ListLearning(ctx, input.UserID, input.DeckID, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list learning cards: %w", err)
	}

	review, err := s.cards.ListReviewDue(ctx, input.UserID, input.DeckID, input.Now)
	if err != nil {
		return nil, fmt.Errorf("list due review cards: %w", err)
	}

	fresh, err := s.cards.ListNew(ctx, input.UserID, input.DeckID, input.effectiveMaxNew(s.cfg))
	if err != nil {
		return nil, fmt.Errorf("list new cards: %w", err)
	}

	candidates := make([]domain.Card, 0, len(learning)+len(review)+len(fresh))
	candidates = append(candidates, learning...)
	candidates = append(candidates, review...)
	candidates = append(candidates, fresh...)

	// Re-partition in memory so ordering never depends on store ordering.
	queue := partitionQueue(candidates, input.Now, dayEnd)

	s.log.InfoContext(ctx, "session candidates selected",
		slog.String("user_id", input.UserID.String()),
		slog.String("deck_id", input.DeckID.String()),
		slog.Int("learning", len(learning)),
		slog.Int("review", len(review)),
		slog.Int("new", len(fresh)),
		slog.Int("total", len(queue)),
	)

	return queue, nil
}

// ---------------------------------------------------------------------------
// Cohort partitioning
// ---------------------------------------------------------------------------

type cohort int

const (
	cohortNone cohort = iota
	cohortLearning
	cohortReview
	cohortNew
)

// cohortOf classifies a card for session ordering. Cards that qualify for
// no cohort (future review cards, soft-deleted cards) are excluded.
func cohortOf(c *domain.Card, now, dayEnd time.Time) cohort {
	if c.IsDeleted() {
		return cohortNone
	}

	switch c.State {
	case domain.CardStateLearning, domain.CardStateRelearning:
		if c.Due.Before(dayEnd) {
			return cohortLearning
		}
	case domain.CardStateReview:
		if !c.Due.After(now) {
			return cohortReview
		}
	case domain.CardStateNew:
		if c.Reps == 0 {
			return cohortNew
		}
	}
	return cohortNone
}

// partitionQueue splits cards into the three cohorts by the selection
// predicates and re-concatenates them in priority order. Within a cohort
// the sort is stable and store-independent: due ascending for learning and
// review, creation ascending for new, card id as the tie-break.
func partitionQueue(cards []domain.Card, now, dayEnd time.Time) []domain.Card {
	var learning, review, fresh []domain.Card

	for _, c := range cards {
		switch cohortOf(&c, now, dayEnd) {
		case cohortLearning:
			learning = append(learning, c)
		case cohortReview:
			review = append(review, c)
		case cohortNew:
			fresh = append(fresh, c)
		}
	}

	byDue := func(cs []domain.Card) func(i, j int) bool {
		return func(i, j int) bool {
			if !cs[i].Due.Equal(cs[j].Due) {
				return cs[i].Due.Before(cs[j].Due)
			}
			return strings.Compare(cs[i].ID.String(), cs[j].ID.String()) < 0
		}
	}
	sort.Slice(learning, byDue(learning))
	sort.Slice(review, byDue(review))
	sort.Slice(fresh, func(i, j int) bool {
		if !fresh[i].CreatedAt.Equal(fresh[j].CreatedAt) {
			return fresh[i].CreatedAt.Before(fresh[j].CreatedAt)
		}
		return strings.Compare(fresh[i].ID.String(), fresh[j].ID.String()) < 0
	})

	queue := make([]domain.Card, 0, len(learning)+len(review)+len(fresh))
	queue = append(queue, learning...)
	queue = append(queue, review...)
	queue = append(queue, fresh...)
	return queue
}
