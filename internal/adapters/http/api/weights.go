package api

import (
	"net/http"

	"github.com/okian/talentrank/internal/domain/model"
)

// WeightsHandler handles weight retrieval.
type WeightsHandler struct {
	deps Dependencies
}

// NewWeightsHandler creates a weights handler.
func NewWeightsHandler(deps Dependencies) *WeightsHandler {
	return &WeightsHandler{deps: deps}
}

// weightsResponse carries a resolved vector and the scope's version.
type weightsResponse struct {
	Scope   model.Scope        `json:"scope"`
	Weights model.WeightVector `json:"weights"`
	Version uint64             `json:"version"`
}

// HandleGetWeights handles GET /weights?recruiter_id=&job_id=. Omitted
// parameters widen the scope; no parameters resolve the global default.
func (h *WeightsHandler) HandleGetWeights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	scope := model.Scope{
		RecruiterID: r.URL.Query().Get("recruiter_id"),
		JobID:       r.URL.Query().Get("job_id"),
	}
	weights, version, err := h.deps.GetWeights(r.Context(), scope)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weightsResponse{Scope: scope, Weights: weights, Version: version})
}
