package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/talentrank/internal/domain/scoring"
	"github.com/okian/talentrank/pkg/metrics"
)

// pairKey identifies the latest score for one applicant/job pair.
type pairKey struct {
	applicantID string
	jobID       string
}

// ScoreStore keeps the full immutable score history plus a latest-per-pair
// view with a per-job treap index for cheap ranked reads. A recompute
// supersedes the pair's previous record in the index; the history keeps both.
type ScoreStore struct {
	mu      sync.RWMutex
	history []scoring.ScoreRecord
	latest  map[pairKey]scoring.ScoreRecord
	byJob   map[string]*rankIndex
}

// NewScoreStore creates an empty score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		latest: make(map[pairKey]scoring.ScoreRecord),
		byJob:  make(map[string]*rankIndex),
	}
}

// Append records a score computation. The pair's previous latest record is
// superseded in the rank index, never mutated.
func (s *ScoreStore) Append(ctx context.Context, rec scoring.ScoreRecord) error {
	key := pairKey{applicantID: rec.ApplicantID, jobID: rec.JobID}

	s.mu.Lock()
	s.history = append(s.history, rec)

	ix, ok := s.byJob[rec.JobID]
	if !ok {
		ix = &rankIndex{}
		s.byJob[rec.JobID] = ix
	}
	if prev, ok := s.latest[key]; ok {
		ix.remove(prev.OverallScore, prev.MatchScore, prev.ApplicantID)
	}
	s.latest[key] = rec
	ix.insert(rec.OverallScore, rec.MatchScore, rec.ApplicantID)
	total := len(s.history)
	s.mu.Unlock()

	metrics.UpdateScoreRecordCount(total)
	return nil
}

// Latest returns the most recent score for an applicant/job pair.
func (s *ScoreStore) Latest(ctx context.Context, applicantID, jobID string) (scoring.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.latest[pairKey{applicantID: applicantID, jobID: jobID}]
	if !ok {
		return scoring.ScoreRecord{}, fmt.Errorf("score for %s/%s: %w", applicantID, jobID, ErrNotFound)
	}
	return rec, nil
}

// LatestForApplicant returns the applicant's most recently created score
// across all jobs.
func (s *ScoreStore) LatestForApplicant(ctx context.Context, applicantID string) (scoring.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best scoring.ScoreRecord
	found := false
	for key, rec := range s.latest {
		if key.applicantID != applicantID {
			continue
		}
		if !found || rec.CreatedAt.After(best.CreatedAt) {
			best = rec
			found = true
		}
	}
	if !found {
		return scoring.ScoreRecord{}, fmt.Errorf("score for applicant %s: %w", applicantID, ErrNotFound)
	}
	return best, nil
}

// LatestForJob returns the latest score of every applicant scored for the
// job, best first. The slice is a point-in-time snapshot.
func (s *ScoreStore) LatestForJob(ctx context.Context, jobID string) ([]scoring.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ix, ok := s.byJob[jobID]
	if !ok {
		return nil, nil
	}
	ids := ix.top(0)
	out := make([]scoring.ScoreRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.latest[pairKey{applicantID: id, jobID: jobID}]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// TopForJob returns up to limit latest scores for the job, best first.
func (s *ScoreStore) TopForJob(ctx context.Context, jobID string, limit int) ([]scoring.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ix, ok := s.byJob[jobID]
	if !ok {
		return nil, nil
	}
	ids := ix.top(limit)
	out := make([]scoring.ScoreRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.latest[pairKey{applicantID: id, jobID: jobID}]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// LatestAll returns the latest record of every applicant/job pair, across
// all jobs. Used for global fairness audits.
func (s *ScoreStore) LatestAll(ctx context.Context) ([]scoring.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]scoring.ScoreRecord, 0, len(s.latest))
	for _, rec := range s.latest {
		out = append(out, rec)
	}
	return out, nil
}

// History returns every record ever appended for the pair, oldest first.
func (s *ScoreStore) History(ctx context.Context, applicantID, jobID string) ([]scoring.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []scoring.ScoreRecord
	for _, rec := range s.history {
		if rec.ApplicantID == applicantID && rec.JobID == jobID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Count reports the total number of records in the history.
func (s *ScoreStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}
