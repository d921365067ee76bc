// Package service wires the engine components together and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	decisionqueue "github.com/okian/talentrank/internal/adapters/mq/queue"
	workerpool "github.com/okian/talentrank/internal/adapters/mq/worker"
	"github.com/okian/talentrank/internal/adapters/repository"
	"github.com/okian/talentrank/internal/domain/dedupe"
	"github.com/okian/talentrank/internal/domain/explain"
	"github.com/okian/talentrank/internal/domain/fairness"
	"github.com/okian/talentrank/internal/domain/learning"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/ranking"
	"github.com/okian/talentrank/internal/domain/recommend"
	"github.com/okian/talentrank/internal/domain/scoring"
	"github.com/okian/talentrank/internal/domain/types"
	"github.com/okian/talentrank/pkg/logger"
)

// defaultGroupKey is the applicant attribute audits group by.
const defaultGroupKey = "group"

// Service implements the API dependencies for the scoring engine.
type Service struct {
	mu sync.RWMutex

	// Stores
	profiles *repository.ProfileStore
	weights  *repository.WeightStore
	scores   *repository.ScoreStore
	feedback *repository.FeedbackLog
	audits   *repository.AuditHistory

	// Domain components
	scorer    *scoring.Engine
	learner   *learning.Learner
	auditor   *fairness.Auditor
	ranker    *ranking.Service
	recommend *recommend.Engine
	deduper   dedupe.Deduper

	// Async decision path
	queue *decisionqueue.InMemoryQueue
	pool  *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	learningRate    float64
	maxRetries      int
	maxTopK         int
	maxRankingLimit int
	saturationYears int
	educationBands  map[model.DegreeLevel]float64
	fairnessOpts    []fairness.Option

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of decision workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithQueueSize bounds the decision queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithDedupeSize bounds the decision idempotency cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithLearningRate sets the default learning rate.
func WithLearningRate(rate float64) Option {
	return func(s *Service) {
		if rate > 0 && rate <= 1 {
			s.learningRate = rate
		}
	}
}

// WithMaxUpdateRetries bounds weight update retries.
func WithMaxUpdateRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithMaxTopK caps recommendation queries.
func WithMaxTopK(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopK = n
		}
	}
}

// WithMaxRankingLimit caps ranking queries.
func WithMaxRankingLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRankingLimit = n
		}
	}
}

// WithSaturationYears sets the experience saturation point used when a job
// has no target range.
func WithSaturationYears(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.saturationYears = n
		}
	}
}

// WithEducationBands overrides the degree-to-score lookup table.
func WithEducationBands(bands map[model.DegreeLevel]float64) Option {
	return func(s *Service) {
		if len(bands) > 0 {
			s.educationBands = bands
		}
	}
}

// WithFairnessOptions forwards cutoff configuration to the auditor.
func WithFairnessOptions(opts ...fairness.Option) Option {
	return func(s *Service) {
		s.fairnessOpts = append(s.fairnessOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       10000,
		dedupeSize:      50000,
		learningRate:    0.1,
		maxRetries:      5,
		maxTopK:         50,
		maxRankingLimit: 500,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the component graph and launches the decision workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.profiles = repository.NewProfileStore()
	s.weights = repository.NewWeightStore()
	s.scores = repository.NewScoreStore()
	s.feedback = repository.NewFeedbackLog()
	s.audits = repository.NewAuditHistory()

	scoringOpts := []scoring.Option{}
	if s.saturationYears > 0 {
		scoringOpts = append(scoringOpts, scoring.WithSaturationYears(s.saturationYears))
	}
	if len(s.educationBands) > 0 {
		scoringOpts = append(scoringOpts, scoring.WithEducationBands(s.educationBands))
	}
	s.scorer = scoring.NewEngine(scoringOpts...)

	s.learner = learning.NewLearner(s.weights,
		learning.WithLearningRate(s.learningRate),
		learning.WithMaxRetries(s.maxRetries),
	)
	auditorOpts := append([]fairness.Option{fairness.WithHistory(s.audits)}, s.fairnessOpts...)
	s.auditor = fairness.NewAuditor(auditorOpts...)
	s.ranker = ranking.NewService(s.scores, ranking.WithMaxLimit(s.maxRankingLimit))
	s.recommend = recommend.NewEngine(s.profiles, s.weights, s.scorer,
		recommend.WithMaxTopK(s.maxTopK),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	s.queue = decisionqueue.NewInMemoryQueue(decisionqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.learner)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains the decision path and shuts the workers down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := s.pool.Shutdown(sctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
		}
		cancel()
	}

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// CreateApplicant stores an applicant profile.
func (s *Service) CreateApplicant(ctx context.Context, p model.ApplicantProfile) (model.ApplicantProfile, error) {
	return s.profiles.PutApplicant(ctx, p)
}

// GetApplicant returns a stored applicant profile.
func (s *Service) GetApplicant(ctx context.Context, id string) (model.ApplicantProfile, error) {
	return s.profiles.Applicant(ctx, id)
}

// CreateJob stores a job profile.
func (s *Service) CreateJob(ctx context.Context, j model.JobProfile) (model.JobProfile, error) {
	return s.profiles.PutJob(ctx, j)
}

// GetJob returns a stored job profile.
func (s *Service) GetJob(ctx context.Context, id string) (model.JobProfile, error) {
	return s.profiles.Job(ctx, id)
}

// CreateApplication links an applicant to a job.
func (s *Service) CreateApplication(ctx context.Context, a model.Application) (model.Application, error) {
	return s.profiles.PutApplication(ctx, a)
}

// ScorePair computes and stores a fresh score for an applicant/job pair
// under the pair's resolved weight scope. An empty recruiterID falls back to
// the job's recruiter.
func (s *Service) ScorePair(ctx context.Context, applicantID, jobID, recruiterID string) (scoring.ScoreRecord, error) {
	applicant, err := s.profiles.Applicant(ctx, applicantID)
	if err != nil {
		return scoring.ScoreRecord{}, err
	}
	job, err := s.profiles.Job(ctx, jobID)
	if err != nil {
		return scoring.ScoreRecord{}, err
	}

	if recruiterID == "" {
		recruiterID = job.RecruiterID
	}
	scope := model.Scope{RecruiterID: recruiterID, JobID: jobID}
	weights, version, err := s.weights.Get(ctx, scope)
	if err != nil {
		return scoring.ScoreRecord{}, fmt.Errorf("resolve weights: %w", err)
	}

	rec, err := s.scorer.Score(ctx, applicant, job, weights, version)
	if err != nil {
		return scoring.ScoreRecord{}, err
	}
	if err := s.scores.Append(ctx, rec); err != nil {
		return scoring.ScoreRecord{}, fmt.Errorf("store score: %w", err)
	}
	return rec, nil
}

// GetWeights resolves the weight vector for a scope.
func (s *Service) GetWeights(ctx context.Context, scope model.Scope) (model.WeightVector, uint64, error) {
	return s.weights.Get(ctx, scope)
}

// SubmitFeedback applies a batch of decisions to the scope synchronously and
// returns the final weights. Each entry must reference a known application
// with at least one computed score.
func (s *Service) SubmitFeedback(ctx context.Context, scope model.Scope, entries []types.FeedbackEntry, learningRate float64) (model.WeightVector, uint64, error) {
	var (
		weights model.WeightVector
		version uint64
	)
	for _, entry := range entries {
		app, err := s.profiles.Application(ctx, entry.ApplicationID)
		if err != nil {
			return model.WeightVector{}, 0, err
		}
		rec, err := s.scores.Latest(ctx, app.ApplicantID, app.JobID)
		if err != nil {
			return model.WeightVector{}, 0, err
		}

		outcome := model.OutcomeRejected
		if entry.Hired {
			outcome = model.OutcomeHired
		}
		if _, err := s.feedback.Append(ctx, model.FeedbackRecord{
			RecruiterID:   scope.RecruiterID,
			JobID:         scope.JobID,
			ApplicationID: app.ID,
			Outcome:       outcome,
			CreatedAt:     time.Now().UTC(),
		}); err != nil {
			return model.WeightVector{}, 0, fmt.Errorf("append feedback: %w", err)
		}

		weights, version, err = s.learner.Submit(ctx, scope, learning.ScoresFromRecord(rec), outcome, learningRate)
		if err != nil {
			return model.WeightVector{}, 0, err
		}
	}
	return weights, version, nil
}

// RecordDecision captures a hiring decision and enqueues the weight update.
// It is best-effort enrichment of the recruiter's workflow: once the
// application is known, the decision is always accepted; queue overflow or a
// missing score is logged, never surfaced. Returns whether the decision was
// a duplicate.
func (s *Service) RecordDecision(ctx context.Context, applicationID string, hired bool, notes string) (bool, error) {
	app, err := s.profiles.Application(ctx, applicationID)
	if err != nil {
		return false, err
	}

	outcome := model.OutcomeRejected
	if hired {
		outcome = model.OutcomeHired
	}
	key := dedupe.Key(applicationID, string(outcome))
	if s.deduper.SeenAndRecord(ctx, key) {
		s.logger.Debug(ctx, "duplicate decision ignored",
			logger.String("applicationID", applicationID),
			logger.String("outcome", string(outcome)),
		)
		return true, nil
	}

	feedbackRec := model.FeedbackRecord{
		RecruiterID:   app.RecruiterID,
		JobID:         app.JobID,
		ApplicationID: app.ID,
		Outcome:       outcome,
		Notes:         notes,
		CreatedAt:     time.Now().UTC(),
	}
	if feedbackRec, err = s.feedback.Append(ctx, feedbackRec); err != nil {
		s.logger.Warn(ctx, "decision not logged", logger.Error(err))
	}

	rec, err := s.scores.Latest(ctx, app.ApplicantID, app.JobID)
	if err != nil {
		// Without a score snapshot there is nothing to learn from; the
		// decision itself stays recorded.
		s.logger.Warn(ctx, "decision recorded without score snapshot",
			logger.String("applicationID", applicationID),
			logger.Error(err),
		)
		return false, nil
	}

	task := decisionqueue.Task{
		Feedback: feedbackRec,
		Scope:    model.Scope{RecruiterID: app.RecruiterID, JobID: app.JobID},
		Scores:   learning.ScoresFromRecord(rec),
	}
	if !s.queue.Enqueue(ctx, task) {
		s.deduper.Unrecord(ctx, key)
		s.logger.Warn(ctx, "decision queue full, weight update dropped",
			logger.String("applicationID", applicationID),
		)
	}
	return false, nil
}

// AuditFairness snapshots the job's latest scores, joins them with applicant
// demographic groups, and runs the auditor.
func (s *Service) AuditFairness(ctx context.Context, jobID string, params fairness.Params) (fairness.Metric, error) {
	if params.GroupKey == "" {
		params.GroupKey = defaultGroupKey
	}
	if params.GroupKey != defaultGroupKey {
		return fairness.Metric{}, fmt.Errorf("%w: unknown group key %q", scoring.ErrInvalidInput, params.GroupKey)
	}

	var (
		records []scoring.ScoreRecord
		err     error
	)
	if jobID != "" {
		records, err = s.scores.LatestForJob(ctx, jobID)
	} else {
		records, err = s.scores.LatestAll(ctx)
	}
	if err != nil {
		return fairness.Metric{}, fmt.Errorf("snapshot scores: %w", err)
	}

	samples := make([]fairness.Sample, 0, len(records))
	for _, rec := range records {
		applicant, err := s.profiles.Applicant(ctx, rec.ApplicantID)
		if err != nil {
			continue // profile removed since scoring; skip
		}
		samples = append(samples, fairness.Sample{
			ApplicantID: rec.ApplicantID,
			Group:       applicant.Group,
			Record:      rec,
		})
	}
	return s.auditor.Audit(ctx, jobID, samples, params)
}

// FairnessHistory returns the append-only audit trail, optionally filtered
// by job.
func (s *Service) FairnessHistory(ctx context.Context, jobID string) ([]fairness.Metric, error) {
	return s.audits.ForJob(ctx, jobID)
}

// Rank returns the job's ranked candidate list.
func (s *Service) Rank(ctx context.Context, jobID string, limit int) ([]types.RankEntry, error) {
	return s.ranker.Rank(ctx, jobID, limit)
}

// Recommend returns top-K matches for the anchor.
func (s *Service) Recommend(ctx context.Context, anchorID string, direction recommend.Direction, k int) ([]types.Recommendation, error) {
	return s.recommend.TopK(ctx, anchorID, direction, k)
}

// Explain breaks the applicant's latest score into per-factor contributions.
// An empty jobID explains the most recent score across jobs.
func (s *Service) Explain(ctx context.Context, applicantID, jobID string) (explain.Explanation, error) {
	var (
		rec scoring.ScoreRecord
		err error
	)
	if jobID != "" {
		rec, err = s.scores.Latest(ctx, applicantID, jobID)
	} else {
		rec, err = s.scores.LatestForApplicant(ctx, applicantID)
	}
	if err != nil {
		return explain.Explanation{}, err
	}
	return explain.Explain(rec), nil
}

// GetStats exposes service counters for the stats endpoint.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return map[string]interface{}{}
	}

	applicants, jobs, applications := s.profiles.Counts(ctx)
	return map[string]interface{}{
		"applicants":    applicants,
		"jobs":          jobs,
		"applications":  applications,
		"score_records": s.scores.Count(ctx),
		"feedback":      s.feedback.Count(ctx),
		"audits":        s.audits.Count(ctx),
		"weight_scopes": s.weights.ScopeCount(ctx),
		"queue_depth":   s.queue.Len(ctx),
		"workers":       s.pool.Size(),
		"dedupe_keys":   s.deduper.Size(),
	}
}
