package api

import (
	"errors"
	"net/http"
	"strings"
)

// DecisionHandler handles hiring decision recording.
type DecisionHandler struct {
	deps Dependencies
}

// NewDecisionHandler creates a decision handler.
func NewDecisionHandler(deps Dependencies) *DecisionHandler {
	return &DecisionHandler{deps: deps}
}

// decisionRequest mirrors the schema for POST /decision.
type decisionRequest struct {
	ApplicationID string `json:"application_id"`
	Hired         bool   `json:"hired"`
	Notes         string `json:"notes"`
}

// decisionResponse acknowledges an accepted decision.
type decisionResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandleDecision handles POST /decision. Recording is best-effort
// enrichment of the recruiter's primary workflow: a valid decision is always
// accepted with 202, even when the learning update later fails. Only an
// unknown application id is a hard error.
func (h *DecisionHandler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req decisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if strings.TrimSpace(req.ApplicationID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", errors.New("missing application_id"))
		return
	}

	duplicate, err := h.deps.RecordDecision(r.Context(), req.ApplicationID, req.Hired, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, decisionResponse{Status: "accepted", Duplicate: duplicate})
}
