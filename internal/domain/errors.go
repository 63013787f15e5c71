package domain

import "errors"

// Lifecycle errors reported by the question store. Mutations on a question
// that was concurrently answered or deleted fail with one of these instead
// of silently succeeding.
var (
	ErrNotFound        = errors.New("question not found")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrAlreadyDeleted  = errors.New("question already deleted")

	// ErrNoActiveFlow is returned when a flow completion arrives for an
	// identity that is not inside that flow anymore
	ErrNoActiveFlow = errors.New("no active flow")

	// ErrUnknownSetting is returned for a setting key outside the known set
	ErrUnknownSetting = errors.New("unknown setting key")
)
