package api

import (
	"errors"
	"net/http"

	"github.com/okian/talentrank/internal/adapters/repository"
	"github.com/okian/talentrank/internal/domain/fairness"
	"github.com/okian/talentrank/internal/domain/learning"
	"github.com/okian/talentrank/internal/domain/scoring"
)

// statusForError maps domain error kinds onto HTTP statuses and stable
// machine-readable codes.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, scoring.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, fairness.ErrUnknownScoreKey):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, learning.ErrUpdateConflict):
		return http.StatusConflict, "weight_update_conflict"
	case errors.Is(err, fairness.ErrInsufficientData):
		return http.StatusUnprocessableEntity, "insufficient_data"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
