package repository

import "errors"

// Sentinel kinds for store lookups.
var (
	ErrNotFound = errors.New("record not found")
)
