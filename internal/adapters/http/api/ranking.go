package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// RankingHandler handles ranked candidate listings.
type RankingHandler struct {
	deps Dependencies
}

// NewRankingHandler creates a ranking handler.
func NewRankingHandler(deps Dependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandleGetRanking handles GET /ranking/{job_id}?limit=.
func (h *RankingHandler) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/ranking/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "invalid_input", errors.New("missing job id"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_input", errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.deps.Rank(r.Context(), jobID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
