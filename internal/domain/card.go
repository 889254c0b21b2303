package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is one learning item owned by exactly one user within exactly one deck.
// Memory-model fields (stability, difficulty, elapsed/scheduled days, reps,
// lapses) are mutated only through a review commit.
type Card struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	DeckID        uuid.UUID
	Prompt        string
	Answer        string
	State         CardState
	Step          int
	Stability     float64
	Difficulty    float64
	ElapsedDays   float64
	ScheduledDays float64
	Reps          int
	Lapses        int
	Due           time.Time
	LastReview    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// IsDue reports whether the card is eligible for review at the given time.
// NEW cards are always eligible; others when Due <= now.
func (c *Card) IsDue(now time.Time) bool {
	if c.State == CardStateNew {
		return true
	}
	return !c.Due.After(now)
}

// IsDeleted reports whether the card is soft-deleted.
func (c *Card) IsDeleted() bool { return c.DeletedAt != nil }

// CheckInvariants verifies the structural invariants of the memory state:
// state = NEW ⇔ reps = 0 ⇔ last_review absent, plus non-negative counters.
func (c *Card) CheckInvariants() error {
	var errs []FieldError

	isNew := c.State == CardStateNew
	if isNew != (c.Reps == 0) {
		errs = append(errs, FieldError{Field: "reps", Message: "state NEW must coincide with reps = 0"})
	}
	if isNew != (c.LastReview == nil) {
		errs = append(errs, FieldError{Field: "last_review", Message: "state NEW must coincide with absent last_review"})
	}
	if c.Stability < 0 {
		errs = append(errs, FieldError{Field: "stability", Message: "must be >= 0"})
	}
	if c.ElapsedDays < 0 {
		errs = append(errs, FieldError{Field: "elapsed_days", Message: "must be >= 0"})
	}
	if c.Lapses < 0 {
		errs = append(errs, FieldError{Field: "lapses", Message: "must be >= 0"})
	}
	if !c.State.IsValid() {
		errs = append(errs, FieldError{Field: "state", Message: "unknown state"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// ReviewLog records a single completed review event. Immutable after creation.
type ReviewLog struct {
	ID     uuid.UUID
	CardID uuid.UUID
	UserID uuid.UUID
	Rating Rating
	// Snapshot is the memory state produced by this review.
	Snapshot ReviewSnapshot
	// PrevScheduledDays is the interval length that was in force before
	// this review (the "previous interval").
	PrevScheduledDays float64
	ReviewedAt        time.Time
	DeletedAt         *time.Time
}

// ReviewSnapshot captures a card's memory state at a point in time.
// JSON tags define the persisted snapshot format; renaming them is a
// breaking change for stored review logs.
type ReviewSnapshot struct {
	State         CardState  `json:"state"`
	Step          int        `json:"step"`
	Stability     float64    `json:"stability"`
	Difficulty    float64    `json:"difficulty"`
	ScheduledDays float64    `json:"scheduled_days"`
	ElapsedDays   float64    `json:"elapsed_days"`
	Reps          int        `json:"reps"`
	Lapses        int        `json:"lapses"`
	Due           time.Time  `json:"due"`
	LastReview    *time.Time `json:"last_review,omitempty"`
}

// Deck groups cards for one user. The engine only reads deck rows for
// ownership checks and soft-deletes them with their cards.
type Deck struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
	DeletedAt *time.Time
}
