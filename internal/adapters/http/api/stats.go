package api

import "net/http"

// StatsHandler handles service counter requests.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.stats.GetStats(r.Context()))
}
