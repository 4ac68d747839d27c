package domain

import "errors"

// ErrNotFound is returned by repo and store functions when the requested
// plan, activity, trip or storage key does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails validation (e.g. missing
// required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnsupportedVersion is returned when a persisted snapshot was written by
// a newer schema version than this binary understands.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")
