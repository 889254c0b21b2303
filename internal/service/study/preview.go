package study

import (
	"context"
	"fmt"

	"github.com/flashstudy/backend/internal/domain"
)

// Preview returns the prospective outcome of each of the four ratings for a
// card without committing anything. The due timestamps shown here are the
// exact ones a subsequent Answer with the same clock would produce.
func (s *Service) Preview(ctx context.Context, input PreviewInput) (domain.SchedulePreview, error) {
	if err := input.Validate(); err != nil {
		return domain.SchedulePreview{}, err
	}

	card, err := s.cards.GetByID(ctx, input.UserID, input.CardID)
	if err != nil {
		return domain.SchedulePreview{}, fmt.Errorf("get card: %w", err)
	}

	preview, err := s.sched.Preview(card, input.Now)
	if err != nil {
		return domain.SchedulePreview{}, fmt.Errorf("%w: %v", domain.ErrSchedulerUnavailable, err)
	}

	return preview, nil
}
