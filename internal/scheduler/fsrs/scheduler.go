package fsrs

import (
	"fmt"
	"time"

	"github.com/flashstudy/backend/internal/domain"
)

// Card holds the memory state of one flashcard as seen by the model.
type Card struct {
	State         domain.CardState
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

// Parameters holds all model configuration.
type Parameters struct {
	W                [19]float64
	DesiredRetention float64
	MaxIntervalDays  int
	EnableFuzz       bool
	LearningSteps    []time.Duration
	RelearningSteps  []time.Duration
}

// DefaultParameters returns sensible defaults.
func DefaultParameters() Parameters {
	return Parameters{
		W:                DefaultWeights,
		DesiredRetention: 0.9,
		MaxIntervalDays:  365,
		EnableFuzz:       true,
		LearningSteps:    []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:  []time.Duration{10 * time.Minute},
	}
}

// ReviewCard is the core transition: given current card state, a rating, and
// the review timestamp, return the updated card. Pure: identical inputs
// always yield identical outputs.
func ReviewCard(params Parameters, card Card, rating domain.Rating, now time.Time) (Card, error) {
	if !rating.IsValid() {
		return Card{}, fmt.Errorf("unknown rating: %q", rating)
	}

	switch card.State {
	case domain.CardStateNew:
		return reviewNew(params, card, rating, now), nil
	case domain.CardStateLearning:
		return reviewLearning(params, card, rating, now, false), nil
	case domain.CardStateRelearning:
		return reviewLearning(params, card, rating, now, true), nil
	case domain.CardStateReview:
		return reviewReview(params, card, rating, now), nil
	default:
		return Card{}, fmt.Errorf("unknown card state: %q", card.State)
	}
}

// reviewNew handles a NEW card's first review. Lapses never increment here:
// the card had nothing to forget yet.
func reviewNew(params Parameters, card Card, rating domain.Rating, now time.Time) Card {
	card.Reps++
	card.LastReview = &now

	s := InitialStability(params.W, rating)
	d := InitialDifficulty(params.W, rating)

	card.Stability = s
	card.Difficulty = d

	steps := params.LearningSteps
	if len(steps) == 0 {
		steps = []time.Duration{time.Minute}
	}

	switch rating {
	case domain.RatingAgain:
		card.State = domain.CardStateLearning
		card.Step = 0
		card.ScheduledDays = 0
		card.ElapsedDays = 0
		card.Due = now.Add(steps[0])

	case domain.RatingHard:
		card.State = domain.CardStateLearning
		card.Step = 0
		card.ScheduledDays = 0
		card.ElapsedDays = 0
		// Hard: avg of step 0 and step 1.
		var delay time.Duration
		if len(steps) > 1 {
			delay = (steps[0] + steps[1]) / 2
		} else {
			delay = steps[0]
		}
		card.Due = now.Add(delay)

	case domain.RatingGood:
		if len(steps) > 1 {
			card.State = domain.CardStateLearning
			card.Step = 1
			card.ScheduledDays = 0
			card.ElapsedDays = 0
			card.Due = now.Add(steps[1])
		} else {
			card = graduateToReview(params, card, s, d, now)
		}

	case domain.RatingEasy:
		card = graduateToReview(params, card, s, d, now)
		// Use Good stability (not Easy) as the baseline for the minimum interval.
		goodS := InitialStability(params.W, domain.RatingGood)
		goodInterval := NextInterval(goodS, params.DesiredRetention)
		goodInterval = clampInterval(goodInterval, params.MaxIntervalDays)
		if card.ScheduledDays <= float64(goodInterval) {
			ivl := clampInterval(goodInterval+1, params.MaxIntervalDays)
			card.ScheduledDays = float64(ivl)
			card.Due = now.Add(time.Duration(ivl) * 24 * time.Hour)
		}
	}

	return card
}

// reviewLearning handles LEARNING or RELEARNING cards. Again on either
// counts as a lapse: forgetting mid-relearning is still forgetting.
func reviewLearning(params Parameters, card Card, rating domain.Rating, now time.Time, isRelearning bool) Card {
	card.Reps++
	card.LastReview = &now

	steps := params.LearningSteps
	if isRelearning {
		steps = params.RelearningSteps
	}
	if len(steps) == 0 {
		steps = []time.Duration{time.Minute}
	}

	// Snapshot pre-update stability for interval ordering (Easy vs Good).
	preS := card.Stability

	// Short-term stability applies to every rating in this state.
	card.Stability = ShortTermStability(params.W, card.Stability, rating)
	card.Difficulty = NextDifficulty(params.W, card.Difficulty, rating)

	switch rating {
	case domain.RatingAgain:
		card.Lapses++
		card.Step = 0
		card.ElapsedDays = 0
		card.ScheduledDays = 0
		card.Due = now.Add(steps[0])

	case domain.RatingHard:
		// Repeat current step.
		step := card.Step
		if step >= len(steps) {
			step = len(steps) - 1
		}
		card.ElapsedDays = 0
		card.ScheduledDays = 0
		card.Due = now.Add(steps[step])

	case domain.RatingGood:
		nextStep := card.Step + 1
		if nextStep >= len(steps) {
			card = graduateToReview(params, card, card.Stability, card.Difficulty, now)
		} else {
			card.Step = nextStep
			card.ElapsedDays = 0
			card.ScheduledDays = 0
			card.Due = now.Add(steps[nextStep])
		}

	case domain.RatingEasy:
		card = graduateToReview(params, card, card.Stability, card.Difficulty, now)

		// Ensure easyInterval >= goodInterval + 1, using pre-update
		// stability to compute what Good would have produced.
		goodS := ShortTermStability(params.W, preS, domain.RatingGood)
		goodInterval := NextInterval(goodS, params.DesiredRetention)
		goodInterval = clampInterval(goodInterval, params.MaxIntervalDays)
		if card.ScheduledDays <= float64(goodInterval) {
			ivl := clampInterval(goodInterval+1, params.MaxIntervalDays)
			card.ScheduledDays = float64(ivl)
			card.Due = now.Add(time.Duration(ivl) * 24 * time.Hour)
		}
	}

	return card
}

// reviewReview handles REVIEW cards. Computes all four outcomes and enforces
// the interval ordering Again < Hard <= Good < Easy.
func reviewReview(params Parameters, card Card, rating domain.Rating, now time.Time) Card {
	card.Reps++
	card.LastReview = &now

	elapsedDays := card.ElapsedDays
	if elapsedDays < 1 {
		elapsedDays = 1
	}

	r := Retrievability(elapsedDays, card.Stability)

	// Pre-update difficulty feeds all stability calculations.
	preD := card.Difficulty

	d := NextDifficulty(params.W, card.Difficulty, rating)

	if rating == domain.RatingAgain {
		// Lapse: Again always moves a Review card toward Relearning,
		// never directly to a longer Review interval.
		card.Lapses++
		card.State = domain.CardStateRelearning
		card.Step = 0
		card.Difficulty = d

		card.Stability = StabilityAfterForgettingCapped(params.W, card.Stability, preD, r)

		steps := params.RelearningSteps
		if len(steps) == 0 {
			steps = []time.Duration{10 * time.Minute}
		}

		card.ElapsedDays = 0
		card.ScheduledDays = 0
		card.Due = now.Add(steps[0])
		return card
	}

	hardS := StabilityAfterRecall(params.W, card.Stability, preD, r, domain.RatingHard)
	goodS := StabilityAfterRecall(params.W, card.Stability, preD, r, domain.RatingGood)
	easyS := StabilityAfterRecall(params.W, card.Stability, preD, r, domain.RatingEasy)

	hardIvl := clampInterval(NextInterval(hardS, params.DesiredRetention), params.MaxIntervalDays)
	goodIvl := clampInterval(NextInterval(goodS, params.DesiredRetention), params.MaxIntervalDays)
	easyIvl := clampInterval(NextInterval(easyS, params.DesiredRetention), params.MaxIntervalDays)

	// Enforce interval ordering: Hard <= Good < Easy.
	if hardIvl > goodIvl {
		hardIvl = goodIvl
	}
	if goodIvl <= hardIvl {
		goodIvl = hardIvl + 1
	}
	if easyIvl <= goodIvl {
		easyIvl = goodIvl + 1
	}

	hardIvl = clampInterval(hardIvl, params.MaxIntervalDays)
	goodIvl = clampInterval(goodIvl, params.MaxIntervalDays)
	easyIvl = clampInterval(easyIvl, params.MaxIntervalDays)

	if params.EnableFuzz {
		maxIvl := float64(params.MaxIntervalDays)
		seed := FuzzSeed(now, card.Reps, card.Difficulty, card.Stability)

		hardIvl = int(applyFuzz(float64(hardIvl), elapsedDays, maxIvl, seed))
		goodIvl = int(applyFuzz(float64(goodIvl), elapsedDays, maxIvl, seed+1))
		easyIvl = int(applyFuzz(float64(easyIvl), elapsedDays, maxIvl, seed+2))

		// Re-enforce ordering after fuzz.
		if hardIvl > goodIvl {
			hardIvl = goodIvl
		}
		if goodIvl <= hardIvl {
			goodIvl = hardIvl + 1
		}
		if easyIvl <= goodIvl {
			easyIvl = goodIvl + 1
		}
	}

	card.Difficulty = d

	var chosenIvl int
	var chosenS float64
	switch rating {
	case domain.RatingHard:
		chosenIvl = hardIvl
		chosenS = hardS
	case domain.RatingGood:
		chosenIvl = goodIvl
		chosenS = goodS
	case domain.RatingEasy:
		chosenIvl = easyIvl
		chosenS = easyS
	}

	chosenIvl = clampInterval(chosenIvl, params.MaxIntervalDays)

	card.Stability = chosenS
	card.State = domain.CardStateReview
	card.ScheduledDays = float64(chosenIvl)
	card.ElapsedDays = 0
	card.Due = now.Add(time.Duration(chosenIvl) * 24 * time.Hour)

	return card
}

// graduateToReview transitions a card from New/Learning/Relearning to Review.
func graduateToReview(params Parameters, card Card, stability, difficulty float64, now time.Time) Card {
	card.State = domain.CardStateReview
	card.Step = 0
	card.Stability = stability
	card.Difficulty = difficulty

	interval := clampInterval(NextInterval(stability, params.DesiredRetention), params.MaxIntervalDays)

	card.ScheduledDays = float64(interval)
	card.ElapsedDays = 0
	card.Due = now.Add(time.Duration(interval) * 24 * time.Hour)

	return card
}

// clampInterval constrains an interval to [1, maxDays].
func clampInterval(interval, maxDays int) int {
	if interval < 1 {
		return 1
	}
	if interval > maxDays {
		return maxDays
	}
	return interval
}
