package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/pkg/metrics"
)

// FeedbackLog is the append-only record of recruiter decisions. Entries are
// never edited or deleted; the log is the audit trail weight adaptation is
// derived from.
type FeedbackLog struct {
	mu      sync.RWMutex
	entries []model.FeedbackRecord
}

// NewFeedbackLog creates an empty feedback log.
func NewFeedbackLog() *FeedbackLog {
	return &FeedbackLog{}
}

// Append adds a decision to the log, assigning an id when absent.
func (l *FeedbackLog) Append(ctx context.Context, rec model.FeedbackRecord) (model.FeedbackRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	l.mu.Lock()
	l.entries = append(l.entries, rec)
	l.mu.Unlock()

	metrics.RecordFeedbackRecorded()
	return rec, nil
}

// ForJob returns the decisions recorded for a job, oldest first. An empty
// jobID returns the whole log.
func (l *FeedbackLog) ForJob(ctx context.Context, jobID string) ([]model.FeedbackRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.FeedbackRecord, 0, len(l.entries))
	for _, rec := range l.entries {
		if jobID == "" || rec.JobID == jobID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Count reports how many decisions have been recorded.
func (l *FeedbackLog) Count(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
