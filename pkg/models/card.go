package models

import "time"

// Card represents a flashcard owned by a learner
type Card struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Front     string    `json:"front" db:"front"`
	Back      string    `json:"back" db:"back"`
	Example   string    `json:"example" db:"example"` // Optional usage example
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
