package study

import (
	"time"

	"github.com/google/uuid"

	"github.com/flashstudy/backend/internal/domain"
)

// DefaultMaxNew caps the New cohort when the caller passes no max_new.
const DefaultMaxNew = 20

// maxNewCeiling bounds max_new to keep a single session manageable.
const maxNewCeiling = 200

// StartSessionInput holds the parameters for building a session queue.
// Now is always the caller's clock, never the server wall clock, so day
// boundaries stay testable and timezone-explicit.
type StartSessionInput struct {
	UserID   uuid.UUID
	DeckID   uuid.UUID
	Now      time.Time
	MaxNew   int
	Timezone string
}

// Validate checks all fields and collects all errors.
func (i *StartSessionInput) Validate() error {
	var errs []domain.FieldError

	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if i.DeckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}
	if i.Now.IsZero() {
		errs = append(errs, domain.FieldError{Field: "now", Message: "required"})
	}
	if i.MaxNew < 0 || i.MaxNew > maxNewCeiling {
		errs = append(errs, domain.FieldError{Field: "max_new", Message: "must be between 0 and 200"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// effectiveMaxNew resolves the New-cohort cap, falling back to the
// configured per-session default.
func (i *StartSessionInput) effectiveMaxNew(cfg domain.SRSConfig) int {
	if i.MaxNew > 0 {
		return i.MaxNew
	}
	if cfg.NewCardsPerSession > 0 {
		return cfg.NewCardsPerSession
	}
	return DefaultMaxNew
}

// AnswerInput holds the parameters for answering the card at the front of
// the session queue. CardID is optional; when set it must match the front
// card, which guards against answering a stale view of the queue.
type AnswerInput struct {
	CardID uuid.UUID
	Rating domain.Rating
	Now    time.Time
}

// Validate checks all fields and collects all errors.
func (i *AnswerInput) Validate() error {
	var errs []domain.FieldError

	if !i.Rating.IsValid() {
		errs = append(errs, domain.FieldError{Field: "rating", Message: "must be AGAIN, HARD, GOOD, or EASY"})
	}
	if i.Now.IsZero() {
		errs = append(errs, domain.FieldError{Field: "now", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// PreviewInput holds the parameters for previewing the four rating outcomes
// of a card without committing anything.
type PreviewInput struct {
	UserID uuid.UUID
	CardID uuid.UUID
	Now    time.Time
}

// Validate checks all fields and collects all errors.
func (i *PreviewInput) Validate() error {
	var errs []domain.FieldError

	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Now.IsZero() {
		errs = append(errs, domain.FieldError{Field: "now", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// HistoryInput holds the parameters for fetching card review history.
type HistoryInput struct {
	UserID uuid.UUID
	CardID uuid.UUID
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i *HistoryInput) Validate() error {
	var errs []domain.FieldError

	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
