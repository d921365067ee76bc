package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/talentrank/internal/domain/recommend"
)

// defaultTopK is used when the request does not carry a k parameter.
const defaultTopK = 10

// RecommendHandler handles top-K recommendation queries.
type RecommendHandler struct {
	deps Dependencies
}

// NewRecommendHandler creates a recommendations handler.
func NewRecommendHandler(deps Dependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps}
}

// HandleJobsForApplicant handles GET /recommendations/jobs/{applicant_id}?k=.
func (h *RecommendHandler) HandleJobsForApplicant(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "/recommendations/jobs/", recommend.JobsForApplicant)
}

// HandleCandidatesForJob handles GET /recommendations/candidates/{job_id}?k=.
func (h *RecommendHandler) HandleCandidatesForJob(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "/recommendations/candidates/", recommend.CandidatesForJob)
}

func (h *RecommendHandler) handle(w http.ResponseWriter, r *http.Request, prefix string, direction recommend.Direction) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	anchorID := strings.TrimPrefix(r.URL.Path, prefix)
	if anchorID == "" || strings.Contains(anchorID, "/") {
		writeError(w, http.StatusBadRequest, "invalid_input", errors.New("missing anchor id"))
		return
	}

	k := defaultTopK
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_input", errors.New("k must be a positive integer"))
			return
		}
		k = n
	}

	recs, err := h.deps.Recommend(r.Context(), anchorID, direction, k)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
