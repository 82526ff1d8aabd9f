package study

import "errors"

var (
	// ErrSessionEnded is returned when a closed session is asked for cards or answers
	ErrSessionEnded = errors.New("session already ended")
	// ErrInvalidInput is returned for malformed answer data
	ErrInvalidInput = errors.New("invalid input")
)
