package database

import "errors"

var (
	// ErrNotFound is returned when a row doesn't exist or belongs to another user
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an optimistic update lost a race
	ErrConflict = errors.New("concurrent update conflict")
)
