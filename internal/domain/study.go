package domain

import (
	"time"

	"github.com/google/uuid"
)

// SRSConfig holds the spaced-repetition algorithm parameters (pure domain type).
type SRSConfig struct {
	DesiredRetention float64
	MaxIntervalDays  int
	EnableFuzz       bool
	LearningSteps    []time.Duration
	RelearningSteps  []time.Duration
	// NewCardsPerSession is the default cap on the New cohort when the
	// caller does not pass max_new.
	NewCardsPerSession int
}

// SRSUpdateParams holds the memory-state fields written to a card after a
// scheduling decision.
type SRSUpdateParams struct {
	State         CardState
	Step          int
	Stability     float64
	Difficulty    float64
	Due           time.Time
	LastReview    *time.Time
	Reps          int
	Lapses        int
	ScheduledDays float64
	ElapsedDays   float64
}

// Snapshot converts the update into a ReviewSnapshot for the review log.
func (p SRSUpdateParams) Snapshot() ReviewSnapshot {
	return ReviewSnapshot{
		State:         p.State,
		Step:          p.Step,
		Stability:     p.Stability,
		Difficulty:    p.Difficulty,
		ScheduledDays: p.ScheduledDays,
		ElapsedDays:   p.ElapsedDays,
		Reps:          p.Reps,
		Lapses:        p.Lapses,
		Due:           p.Due,
		LastReview:    p.LastReview,
	}
}

// PreviewOption is the prospective outcome of one rating, shown to the
// learner as "time until next review" before they answer.
type PreviewOption struct {
	Rating        Rating
	Due           time.Time
	ScheduledDays float64
	State         CardState
}

// SchedulePreview holds the prospective due timestamp for each of the four
// ratings, in ascending rating order, without committing anything.
type SchedulePreview struct {
	CardID  uuid.UUID
	Options []PreviewOption
}

// Option returns the preview option for the given rating.
func (p SchedulePreview) Option(r Rating) (PreviewOption, bool) {
	for _, o := range p.Options {
		if o.Rating == r {
			return o, true
		}
	}
	return PreviewOption{}, false
}

// DayReviewCount holds the review count for a specific date. Consumed by the
// statistics collaborator for day-bucketed activity reports.
type DayReviewCount struct {
	Date  time.Time
	Count int
}
