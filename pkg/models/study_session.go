package models

import "time"

// StudySession groups the answers a learner gives in one sitting
type StudySession struct {
	ID             string     `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	SessionType    string     `json:"session_type" db:"session_type"` // review, new or mixed
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	EndedAt        *time.Time `json:"ended_at" db:"ended_at"`
	CardsAttempted int        `json:"cards_attempted" db:"cards_attempted"`
	CardsCorrect   int        `json:"cards_correct" db:"cards_correct"`
	TotalTimeSpent int        `json:"total_time_spent" db:"total_time_spent"` // Seconds
}

// Ended reports whether the session has been closed
func (s StudySession) Ended() bool {
	return s.EndedAt != nil
}

// StudyAnswer is a single answer given during a session
type StudyAnswer struct {
	ID         string    `json:"id" db:"id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	CardID     string    `json:"card_id" db:"card_id"`
	UserAnswer string    `json:"user_answer" db:"user_answer"`
	IsCorrect  bool      `json:"is_correct" db:"is_correct"`
	TimeSpent  int       `json:"time_spent" db:"time_spent"` // Seconds
	SelfRating *int      `json:"self_rating" db:"self_rating"`
	AnsweredAt time.Time `json:"answered_at" db:"answered_at"`
}
