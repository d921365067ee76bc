// Package recommend computes top-K matches between applicants and jobs.
package recommend

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/ranking"
	"github.com/okian/talentrank/internal/domain/scoring"
	"github.com/okian/talentrank/internal/domain/types"
	"github.com/okian/talentrank/pkg/metrics"
)

// Direction selects which side of the match the anchor sits on.
type Direction string

// Recommendation directions.
const (
	JobsForApplicant Direction = "jobs-for-applicant"
	CandidatesForJob Direction = "candidates-for-job"
)

// Defaults bounding a top-K query.
const (
	defaultMaxTopK     = 50
	defaultParallelism = 8
)

// ProfileSource provides the profiles recommendations are computed over.
type ProfileSource interface {
	Applicant(ctx context.Context, id string) (model.ApplicantProfile, error)
	Job(ctx context.Context, id string) (model.JobProfile, error)
	Applicants(ctx context.Context) ([]model.ApplicantProfile, error)
	Jobs(ctx context.Context) ([]model.JobProfile, error)
}

// WeightSource resolves the weight vector for a scope.
type WeightSource interface {
	Get(ctx context.Context, scope model.Scope) (model.WeightVector, uint64, error)
}

// Engine scores every candidate pair for an anchor and keeps the best k.
// Pair scoring is stateless, so pairs are scored in parallel.
type Engine struct {
	profiles    ProfileSource
	weights     WeightSource
	scorer      *scoring.Engine
	maxTopK     int
	parallelism int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxTopK caps k for a single query.
func WithMaxTopK(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTopK = n
		}
	}
}

// WithParallelism bounds how many pairs are scored concurrently.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// NewEngine creates a recommendation engine.
func NewEngine(profiles ProfileSource, weights WeightSource, scorer *scoring.Engine, opts ...Option) *Engine {
	e := &Engine{
		profiles:    profiles,
		weights:     weights,
		scorer:      scorer,
		maxTopK:     defaultMaxTopK,
		parallelism: defaultParallelism,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TopK returns the best k matches for the anchor in the given direction,
// ordered like a ranking (overall desc, match desc, id asc). Results are a
// strict prefix of the full ordered sequence, so growing k only appends.
func (e *Engine) TopK(ctx context.Context, anchorID string, direction Direction, k int) ([]types.Recommendation, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", scoring.ErrInvalidInput, k)
	}
	if k > e.maxTopK {
		k = e.maxTopK
	}

	start := time.Now()
	var (
		records []scoring.ScoreRecord
		titles  map[string]string
		err     error
	)
	switch direction {
	case JobsForApplicant:
		records, titles, err = e.scoreJobsFor(ctx, anchorID)
	case CandidatesForJob:
		records, titles, err = e.scoreCandidatesFor(ctx, anchorID)
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", scoring.ErrInvalidInput, direction)
	}
	if err != nil {
		return nil, err
	}

	ranking.Sort(records)
	if len(records) > k {
		records = records[:k]
	}

	out := make([]types.Recommendation, 0, len(records))
	for _, rec := range records {
		entityID := rec.JobID
		if direction == CandidatesForJob {
			entityID = rec.ApplicantID
		}
		out = append(out, types.Recommendation{
			EntityID:        entityID,
			Title:           titles[entityID],
			MatchPercentage: rec.OverallScore,
		})
	}

	metrics.RecordRecommendationQuery()
	metrics.RecordRecommendationLatency(float64(time.Since(start).Milliseconds()))
	return out, nil
}

// scoreJobsFor scores one applicant against every job.
func (e *Engine) scoreJobsFor(ctx context.Context, applicantID string) ([]scoring.ScoreRecord, map[string]string, error) {
	applicant, err := e.profiles.Applicant(ctx, applicantID)
	if err != nil {
		return nil, nil, fmt.Errorf("load applicant %s: %w", applicantID, err)
	}
	jobs, err := e.profiles.Jobs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list jobs: %w", err)
	}

	titles := make(map[string]string, len(jobs))
	records := make([]scoring.ScoreRecord, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, job := range jobs {
		titles[job.ID] = job.Title
		g.Go(func() error {
			rec, err := e.scorePair(gctx, applicant, job)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, titles, nil
}

// scoreCandidatesFor scores every applicant against one job.
func (e *Engine) scoreCandidatesFor(ctx context.Context, jobID string) ([]scoring.ScoreRecord, map[string]string, error) {
	job, err := e.profiles.Job(ctx, jobID)
	if err != nil {
		return nil, nil, fmt.Errorf("load job %s: %w", jobID, err)
	}
	applicants, err := e.profiles.Applicants(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list applicants: %w", err)
	}

	titles := make(map[string]string, len(applicants))
	records := make([]scoring.ScoreRecord, len(applicants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, applicant := range applicants {
		titles[applicant.ID] = applicant.Name
		g.Go(func() error {
			rec, err := e.scorePair(gctx, applicant, job)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, titles, nil
}

// scorePair scores one pair under the job's resolved weight scope.
func (e *Engine) scorePair(ctx context.Context, applicant model.ApplicantProfile, job model.JobProfile) (scoring.ScoreRecord, error) {
	scope := model.Scope{RecruiterID: job.RecruiterID, JobID: job.ID}
	weights, version, err := e.weights.Get(ctx, scope)
	if err != nil {
		return scoring.ScoreRecord{}, fmt.Errorf("resolve weights: %w", err)
	}
	rec, err := e.scorer.Score(ctx, applicant, job, weights, version)
	if err != nil {
		return scoring.ScoreRecord{}, fmt.Errorf("score %s/%s: %w", applicant.ID, job.ID, err)
	}
	return rec, nil
}
