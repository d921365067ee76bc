package api

import (
	"errors"
	"net/http"
	"strings"
)

// ScoreHandler handles score computation requests.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreRequest mirrors the schema for POST /score.
type scoreRequest struct {
	ApplicantID string `json:"applicant_id"`
	JobID       string `json:"job_id"`
	RecruiterID string `json:"recruiter_id"`
}

func (s scoreRequest) validate() error {
	if strings.TrimSpace(s.ApplicantID) == "" {
		return errors.New("missing applicant_id")
	}
	if strings.TrimSpace(s.JobID) == "" {
		return errors.New("missing job_id")
	}
	return nil
}

// HandleScore handles POST /score. It computes a fresh score record for the
// pair, superseding any previous one.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req scoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}

	rec, err := h.deps.ScorePair(r.Context(), req.ApplicantID, req.JobID, req.RecruiterID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}
