package domain

// CardState represents the scheduling state of a card.
type CardState string

const (
	CardStateNew        CardState = "NEW"
	CardStateLearning   CardState = "LEARNING"
	CardStateReview     CardState = "REVIEW"
	CardStateRelearning CardState = "RELEARNING"
)

func (s CardState) String() string { return string(s) }

func (s CardState) IsValid() bool {
	switch s {
	case CardStateNew, CardStateLearning, CardStateReview, CardStateRelearning:
		return true
	}
	return false
}

// Rating represents the learner's self-assessed recall quality.
// The set is ordered: Again < Hard < Good < Easy.
type Rating string

const (
	RatingAgain Rating = "AGAIN"
	RatingHard  Rating = "HARD"
	RatingGood  Rating = "GOOD"
	RatingEasy  Rating = "EASY"
)

func (r Rating) String() string { return string(r) }

func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	}
	return false
}

// Ordinal returns the 1-based position of the rating in the ordered set,
// or 0 for an invalid rating.
func (r Rating) Ordinal() int {
	switch r {
	case RatingAgain:
		return 1
	case RatingHard:
		return 2
	case RatingGood:
		return 3
	case RatingEasy:
		return 4
	}
	return 0
}

// Ratings lists all ratings in ascending order.
// Preview responses iterate this slice so the wire order is stable.
var Ratings = []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}

// ParseRating converts a wire string into a Rating.
// The representation round-trips exactly: ParseRating(r.String()) == r.
func ParseRating(s string) (Rating, bool) {
	r := Rating(s)
	return r, r.IsValid()
}
