package repository

import (
	"context"
	"sync"

	"github.com/okian/talentrank/internal/domain/fairness"
)

// AuditHistory is the append-only trail of fairness audit runs, supporting
// per-job trend queries.
type AuditHistory struct {
	mu      sync.RWMutex
	entries []fairness.Metric
}

// NewAuditHistory creates an empty audit history.
func NewAuditHistory() *AuditHistory {
	return &AuditHistory{}
}

// Append adds a completed audit to the trail.
func (h *AuditHistory) Append(ctx context.Context, m fairness.Metric) error {
	h.mu.Lock()
	h.entries = append(h.entries, m)
	h.mu.Unlock()
	return nil
}

// ForJob returns the audits recorded for a job, oldest first. An empty jobID
// returns the whole trail, including global audits.
func (h *AuditHistory) ForJob(ctx context.Context, jobID string) ([]fairness.Metric, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]fairness.Metric, 0, len(h.entries))
	for _, m := range h.entries {
		if jobID == "" || m.JobID == jobID {
			out = append(out, m)
		}
	}
	return out, nil
}

// Count reports how many audits have been recorded.
func (h *AuditHistory) Count(ctx context.Context) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
