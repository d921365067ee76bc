package api

import (
	"errors"
	"net/http"
	"strings"
)

// ExplainHandler handles score explanation queries.
type ExplainHandler struct {
	deps Dependencies
}

// NewExplainHandler creates an explanation handler.
func NewExplainHandler(deps Dependencies) *ExplainHandler {
	return &ExplainHandler{deps: deps}
}

// HandleGetExplanation handles GET /explanation/{applicant_id}?job_id=. A
// missing job_id explains the applicant's most recent score across jobs.
func (h *ExplainHandler) HandleGetExplanation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	applicantID := strings.TrimPrefix(r.URL.Path, "/explanation/")
	if applicantID == "" || strings.Contains(applicantID, "/") {
		writeError(w, http.StatusBadRequest, "invalid_input", errors.New("missing applicant id"))
		return
	}

	ex, err := h.deps.Explain(r.Context(), applicantID, r.URL.Query().Get("job_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}
