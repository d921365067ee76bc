package scoring

import "errors"

// Sentinel error kinds for scoring.
var (
	// ErrInvalidInput marks malformed or missing required fields. Not
	// retryable; the caller must fix the request.
	ErrInvalidInput = errors.New("invalid input")
)
