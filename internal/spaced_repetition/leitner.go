package spaced_repetition

import (
	"fmt"
	"math"
	"time"

	"github.com/example/leitnerbot/pkg/models"
)

const (
	// DefaultMaxBox is the highest Leitner box a card can reach
	DefaultMaxBox = 5
	// InitialEaseFactor is assigned to every new schedule state
	InitialEaseFactor = 2.5
	// MinEaseFactor is the SM-2 floor for the ease factor
	MinEaseFactor = 1.3
	// MissPenalty is subtracted from the ease factor on an incorrect answer
	MissPenalty = 0.2
	// MaxIntervalDays caps interval growth at about a hundred years
	MaxIntervalDays = 36500
)

// SelfRating is the learner's own assessment of how hard a card was
type SelfRating int

const (
	RatingVeryHard SelfRating = 1
	RatingHard     SelfRating = 2
	RatingMedium   SelfRating = 3
	RatingEasy     SelfRating = 4
	RatingVeryEasy SelfRating = 5

	// NeutralQuality is used for the ease formula when a correct answer comes without a rating
	NeutralQuality = RatingEasy
)

// Leitner combines Leitner boxes with the SM-2 ease factor
type Leitner struct {
	MaxBox int
}

// NewLeitner creates the engine with the default five boxes
func NewLeitner() *Leitner {
	return &Leitner{MaxBox: DefaultMaxBox}
}

// NewScheduleState returns the state a card gets the first time it meets a learner.
// The card is immediately due.
func NewScheduleState(cardID string, userID int64, now time.Time) models.ScheduleState {
	return models.ScheduleState{
		CardID:       cardID,
		UserID:       userID,
		BoxLevel:     1,
		EaseFactor:   InitialEaseFactor,
		Interval:     1,
		Repetitions:  0,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ComputeNextState applies one review outcome to the current state and returns the new state.
// The input is not modified. selfRating is optional (1 = hardest, 5 = easiest).
func (l *Leitner) ComputeNextState(current models.ScheduleState, correct bool, selfRating *int, now time.Time) (models.ScheduleState, error) {
	if err := l.Validate(current); err != nil {
		return models.ScheduleState{}, err
	}
	if selfRating != nil && !validRating(*selfRating) {
		return models.ScheduleState{}, fmt.Errorf("%w: %d (want 1-5)", ErrInvalidRating, *selfRating)
	}

	next := current
	next.TotalReviews++

	if correct {
		next.CorrectReviews++
		next.ConsecutiveCorrect++
		next.Repetitions++
		next.BoxLevel = min(l.MaxBox, next.BoxLevel+1)

		quality := int(NeutralQuality)
		if selfRating != nil {
			quality = *selfRating
		}
		next.EaseFactor = NextEaseFactor(next.EaseFactor, quality)

		switch next.Repetitions {
		case 1:
			next.Interval = 1
		case 2:
			next.Interval = 3
		default:
			next.Interval = GrowInterval(next.Interval, next.EaseFactor)
		}
	} else {
		next.ConsecutiveCorrect = 0
		next.Repetitions = 0
		next.BoxLevel = max(1, next.BoxLevel-1)
		next.Interval = 1
		next.EaseFactor = math.Max(MinEaseFactor, next.EaseFactor-MissPenalty)
	}

	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.NextReviewAt = now.AddDate(0, 0, next.Interval)
	next.UpdatedAt = now

	return next, nil
}

// NextEaseFactor applies the SM-2 quality adjustment and the 1.3 floor
func NextEaseFactor(ef float64, quality int) float64 {
	q := float64(quality)
	ef += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	return ef
}

// GrowInterval multiplies the interval by the ease factor, rounding half away from zero.
// Small intervals may not grow at all (3 * 1.3 rounds to 4, 1 * 1.3 rounds to 1).
// The result never exceeds MaxIntervalDays.
func GrowInterval(interval int, ef float64) int {
	grown := math.Round(float64(interval) * ef)
	if grown > MaxIntervalDays {
		return MaxIntervalDays
	}
	if grown < 1 {
		return 1
	}
	return int(grown)
}

// Validate checks the state invariants the engine relies on
func (l *Leitner) Validate(s models.ScheduleState) error {
	switch {
	case s.BoxLevel < 1 || s.BoxLevel > l.MaxBox:
		return fmt.Errorf("%w: box level %d outside 1-%d", ErrInvalidState, s.BoxLevel, l.MaxBox)
	case s.EaseFactor < MinEaseFactor || math.IsNaN(s.EaseFactor):
		return fmt.Errorf("%w: ease factor %.2f below %.1f", ErrInvalidState, s.EaseFactor, MinEaseFactor)
	case s.Interval < 1:
		return fmt.Errorf("%w: interval %d must be at least 1 day", ErrInvalidState, s.Interval)
	case s.Repetitions < 0:
		return fmt.Errorf("%w: negative repetitions %d", ErrInvalidState, s.Repetitions)
	case s.TotalReviews < 0 || s.CorrectReviews < 0 || s.ConsecutiveCorrect < 0:
		return fmt.Errorf("%w: negative review counters", ErrInvalidState)
	}
	return nil
}

// IsMastered determines if a card has reached the top box
func (l *Leitner) IsMastered(s models.ScheduleState) bool {
	return s.BoxLevel >= l.MaxBox
}

func validRating(r int) bool {
	return r >= int(RatingVeryHard) && r <= int(RatingVeryEasy)
}
