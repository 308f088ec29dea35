package services

import "errors"

// Error kinds surfaced to callers. Controllers map these to HTTP
// statuses; anything not wrapping one of them is an internal storage
// failure.
var (
	// ErrValidation covers empty or over-length content and posts
	// carrying neither content nor image. Detected before any write.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the post or target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means no caller identity was supplied where one
	// is required.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is not the post's author.
	ErrForbidden = errors.New("forbidden")
)
