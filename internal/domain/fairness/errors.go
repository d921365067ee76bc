package fairness

import "errors"

// Error kinds surfaced by fairness audits.
var (
	// ErrInsufficientData indicates too few applicants or demographic
	// groups exist to compute a meaningful audit. Not retryable until
	// more data exists.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUnknownScoreKey indicates the requested score field is not one
	// the auditor can group on.
	ErrUnknownScoreKey = errors.New("unknown score key")
)
