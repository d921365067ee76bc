package api

import (
	"net/http"

	"github.com/okian/talentrank/internal/domain/fairness"
)

// defaultAuditThreshold is the selection threshold used when the request
// does not carry one.
const defaultAuditThreshold = 10.0

// FairnessHandler handles fairness audits and their history.
type FairnessHandler struct {
	deps      Dependencies
	threshold float64
}

// NewFairnessHandler creates a fairness handler.
func NewFairnessHandler(deps Dependencies) *FairnessHandler {
	return &FairnessHandler{deps: deps, threshold: defaultAuditThreshold}
}

// auditRequest mirrors the schema for POST /fairness/audit. All fields are
// optional; zero values fall back to defaults.
type auditRequest struct {
	JobID     string   `json:"job_id"`
	GroupKey  string   `json:"group_key"`
	ScoreKey  string   `json:"score_key"`
	Threshold *float64 `json:"threshold"`
}

// HandleAudit handles POST /fairness/audit.
func (h *FairnessHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req auditRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}

	threshold := h.threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	metric, err := h.deps.AuditFairness(r.Context(), req.JobID, fairness.Params{
		GroupKey:  req.GroupKey,
		ScoreKey:  req.ScoreKey,
		Threshold: threshold,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metric)
}

// HandleHistory handles GET /fairness/history?job_id=.
func (h *FairnessHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	history, err := h.deps.FairnessHistory(r.Context(), r.URL.Query().Get("job_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
