package learning

import "errors"

// Sentinel error kinds for weight adaptation.
var (
	// ErrUpdateConflict marks a weight update abandoned after exhausting
	// compare-and-swap retries. Retryable by the caller.
	ErrUpdateConflict = errors.New("weight update conflict")
)
