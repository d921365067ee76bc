// Package ranking orders scored applicants for a job.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/okian/talentrank/internal/domain/scoring"
	"github.com/okian/talentrank/internal/domain/types"
	"github.com/okian/talentrank/pkg/metrics"
)

const defaultMaxLimit = 500

// ScoreSource provides the latest score per applicant for a job as a
// point-in-time snapshot.
type ScoreSource interface {
	LatestForJob(ctx context.Context, jobID string) ([]scoring.ScoreRecord, error)
}

// Service produces ranked candidate lists. Rankings are recomputed from the
// score snapshot on every call rather than cached, since underlying scores
// change as recomputes and weight updates land.
type Service struct {
	source   ScoreSource
	maxLimit int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMaxLimit caps how many entries a single ranking query may return.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// NewService creates a ranking service over a score source.
func NewService(source ScoreSource, opts ...Option) *Service {
	s := &Service{
		source:   source,
		maxLimit: defaultMaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Less is the engine-wide candidate order: overall score descending, then
// match score descending, then applicant id ascending. It is a total order,
// so equal-score candidates rank deterministically.
func Less(a, b scoring.ScoreRecord) bool {
	if a.OverallScore != b.OverallScore {
		return a.OverallScore > b.OverallScore
	}
	if a.MatchScore != b.MatchScore {
		return a.MatchScore > b.MatchScore
	}
	return a.ApplicantID < b.ApplicantID
}

// Sort orders records in place by the engine-wide candidate order.
func Sort(records []scoring.ScoreRecord) {
	sort.Slice(records, func(i, j int) bool { return Less(records[i], records[j]) })
}

// Rank returns the job's candidates ordered by the total order, with 1-based
// ranks. A limit of 0 means no limit beyond the service cap.
func (s *Service) Rank(ctx context.Context, jobID string, limit int) ([]types.RankEntry, error) {
	start := time.Now()
	records, err := s.source.LatestForJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load scores for job %s: %w", jobID, err)
	}

	Sort(records)
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}
	if len(records) > limit {
		records = records[:limit]
	}

	entries := make([]types.RankEntry, 0, len(records))
	for i, rec := range records {
		entries = append(entries, types.RankEntry{
			Rank:         i + 1,
			ApplicantID:  rec.ApplicantID,
			OverallScore: rec.OverallScore,
			MatchScore:   rec.MatchScore,
		})
	}

	metrics.RecordRankingQuery()
	metrics.RecordRankingLatency(float64(time.Since(start).Milliseconds()))
	return entries, nil
}
