package domain

import "errors"

var (
	// ErrProfileNotFound is returned when no profile document exists
	// for the requested identity.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrQuotaExceeded is returned when a turn is refused because the
	// profile's prompt usage has reached its limit.
	ErrQuotaExceeded = errors.New("prompt quota exceeded")

	// ErrEmptyMessage is returned when a chat turn is attempted with
	// no message text.
	ErrEmptyMessage = errors.New("message is required")
)
