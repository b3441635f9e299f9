package usecase

import "errors"

// Sentinel errors shared by the dashboard and internal job surfaces. The
// HTTP layer maps these onto status codes; everything else is treated as
// an internal failure.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
