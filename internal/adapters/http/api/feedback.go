package api

import (
	"errors"
	"net/http"

	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/types"
)

// FeedbackHandler handles synchronous feedback submission.
type FeedbackHandler struct {
	deps Dependencies
}

// NewFeedbackHandler creates a feedback handler.
func NewFeedbackHandler(deps Dependencies) *FeedbackHandler {
	return &FeedbackHandler{deps: deps}
}

// feedbackRequest mirrors the schema for POST /feedback.
type feedbackRequest struct {
	RecruiterID  string                `json:"recruiter_id"`
	JobID        string                `json:"job_id"`
	LearningRate float64               `json:"learning_rate"`
	Entries      []types.FeedbackEntry `json:"entries"`
}

func (f feedbackRequest) validate() error {
	if len(f.Entries) == 0 {
		return errors.New("missing entries")
	}
	if f.LearningRate < 0 || f.LearningRate > 1 {
		return errors.New("learning_rate must be between 0 and 1")
	}
	for _, e := range f.Entries {
		if e.ApplicationID == "" {
			return errors.New("entry missing application_id")
		}
	}
	return nil
}

// HandleFeedback handles POST /feedback. Unlike the decision path, feedback
// submission is synchronous: the caller gets the updated weights back, or a
// conflict when the scope stays contested past the retry bound.
func (h *FeedbackHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req feedbackRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}

	scope := model.Scope{RecruiterID: req.RecruiterID, JobID: req.JobID}
	weights, version, err := h.deps.SubmitFeedback(r.Context(), scope, req.Entries, req.LearningRate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weightsResponse{Scope: scope, Weights: weights, Version: version})
}
