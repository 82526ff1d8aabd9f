package models

import "time"

// ScheduleState tracks a learner's Leitner/SM-2 schedule for a single card
type ScheduleState struct {
	CardID             string     `json:"card_id" db:"card_id"`
	UserID             int64      `json:"user_id" db:"user_id"`
	BoxLevel           int        `json:"box_level" db:"box_level"`     // 1..5, higher = better known
	EaseFactor         float64    `json:"ease_factor" db:"ease_factor"` // SM-2 EF, never below 1.3
	Interval           int        `json:"interval" db:"interval_days"`  // Days until next review
	Repetitions        int        `json:"repetitions" db:"repetitions"` // Correct answers since the last miss
	NextReviewAt       time.Time  `json:"next_review_at" db:"next_review_at"`
	LastReviewedAt     *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	TotalReviews       int        `json:"total_reviews" db:"total_reviews"`
	CorrectReviews     int        `json:"correct_reviews" db:"correct_reviews"`
	ConsecutiveCorrect int        `json:"consecutive_correct" db:"consecutive_correct"`
	Version            int64      `json:"version" db:"version"` // Bumped on every persisted update
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// IsDue reports whether the card should be reviewed at the given time
func (s ScheduleState) IsDue(now time.Time) bool {
	return !s.NextReviewAt.After(now)
}

// NeverReviewed reports whether the card has not been answered yet
func (s ScheduleState) NeverReviewed() bool {
	return s.Repetitions == 0 && s.TotalReviews == 0
}
