package spaced_repetition

import "errors"

// Validation errors returned by the engine. Callers match them with errors.Is.
var (
	ErrInvalidRating      = errors.New("invalid self rating")
	ErrInvalidState       = errors.New("invalid schedule state")
	ErrInvalidSessionType = errors.New("invalid session type")
)
