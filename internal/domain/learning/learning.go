// Package learning adapts scoring weights from recruiter hiring decisions.
package learning

import (
	"context"
	"fmt"

	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/scoring"
	"github.com/okian/talentrank/pkg/logger"
	"github.com/okian/talentrank/pkg/metrics"
)

// Default learner configuration constants.
const (
	defaultLearningRate = 0.1
	defaultMaxRetries   = 5
	maxScoreValue       = 100
)

// FactorScores is the sub-score snapshot at decision time.
type FactorScores struct {
	Skill      float64
	Experience float64
	Education  float64
	Match      float64
	Overall    float64
}

// ScoresFromRecord projects a score record into the learner's input shape.
func ScoresFromRecord(rec scoring.ScoreRecord) FactorScores {
	return FactorScores{
		Skill:      rec.SkillScore,
		Experience: rec.ExperienceScore,
		Education:  rec.EducationScore,
		Match:      rec.MatchScore,
		Overall:    rec.OverallScore,
	}
}

// ApplyFeedback is the single-step gradient-style update relating overall
// score to hire probability. For each factor f:
//
//	delta_f = learningRate * (outcome - overall/100) * score_f/100
//
// The result is clamped to non-negative entries and renormalized to sum 1.
// It is a pure function so it can be tested without the storage layer.
func ApplyFeedback(w model.WeightVector, scores FactorScores, outcome model.Outcome, learningRate float64) model.WeightVector {
	indicator := 0.0
	if outcome == model.OutcomeHired {
		indicator = 1.0
	}
	signal := learningRate * (indicator - scores.Overall/maxScoreValue)

	next := model.WeightVector{
		Skill:      w.Skill + signal*scores.Skill/maxScoreValue,
		Experience: w.Experience + signal*scores.Experience/maxScoreValue,
		Education:  w.Education + signal*scores.Education/maxScoreValue,
		Match:      w.Match + signal*scores.Match/maxScoreValue,
	}
	return next.Clamped().Normalized()
}

// WeightStore is the versioned weight storage the learner mutates through
// compare-and-swap. Readers never block; writers retry on version conflicts.
type WeightStore interface {
	// Get resolves the weight vector for a scope and reports the scope's
	// current version.
	Get(ctx context.Context, scope model.Scope) (model.WeightVector, uint64, error)

	// CompareAndSwap installs next only if the scope's version still equals
	// expected. Returns false without mutating on a version mismatch.
	CompareAndSwap(ctx context.Context, scope model.Scope, expected uint64, next model.WeightVector) (bool, error)
}

// Learner applies feedback to the weight store with bounded optimistic
// retries. Every accepted update is a deterministic function of the version
// it read; lost updates are impossible.
type Learner struct {
	store        WeightStore
	learningRate float64
	maxRetries   int
	logger       logger.Logger
}

// Option applies a configuration option to the Learner.
type Option func(*Learner)

// WithLearningRate sets the default learning rate used when a submission
// does not carry one.
func WithLearningRate(rate float64) Option {
	return func(l *Learner) {
		if rate > 0 && rate <= 1 {
			l.learningRate = rate
		}
	}
}

// WithMaxRetries bounds compare-and-swap retries per submission.
func WithMaxRetries(n int) Option {
	return func(l *Learner) {
		if n > 0 {
			l.maxRetries = n
		}
	}
}

// WithLogger sets a custom logger for the learner.
func WithLogger(log logger.Logger) Option {
	return func(l *Learner) {
		if log != nil {
			l.logger = log
		}
	}
}

// NewLearner creates a learner bound to a weight store.
func NewLearner(store WeightStore, opts ...Option) *Learner {
	l := &Learner{
		store:        store,
		learningRate: defaultLearningRate,
		maxRetries:   defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("learner")
	}
	return l
}

// Submit reads the scope's current weights, applies the feedback update, and
// installs it via compare-and-swap. On a version mismatch it re-reads and
// recomputes against the fresh vector, up to the retry bound, then fails with
// ErrUpdateConflict. A non-positive learningRate falls back to the default.
func (l *Learner) Submit(ctx context.Context, scope model.Scope, scores FactorScores, outcome model.Outcome, learningRate float64) (model.WeightVector, uint64, error) {
	if !outcome.Valid() {
		return model.WeightVector{}, 0, fmt.Errorf("%w: unknown outcome %q", scoring.ErrInvalidInput, outcome)
	}
	rate := learningRate
	if rate <= 0 || rate > 1 {
		rate = l.learningRate
	}

	for attempt := 0; attempt < l.maxRetries; attempt++ {
		current, version, err := l.store.Get(ctx, scope)
		if err != nil {
			return model.WeightVector{}, 0, fmt.Errorf("read weights: %w", err)
		}

		next := ApplyFeedback(current, scores, outcome, rate)

		ok, err := l.store.CompareAndSwap(ctx, scope, version, next)
		if err != nil {
			return model.WeightVector{}, 0, fmt.Errorf("swap weights: %w", err)
		}
		if ok {
			metrics.RecordWeightUpdate()
			return next, version + 1, nil
		}

		metrics.RecordWeightUpdateConflict()
		l.logger.Debug(ctx, "weight update conflict, retrying",
			logger.String("recruiterID", scope.RecruiterID),
			logger.String("jobID", scope.JobID),
			logger.Int("attempt", attempt+1),
		)
	}

	metrics.RecordWeightUpdateFailure()
	return model.WeightVector{}, 0, fmt.Errorf("%w: scope contested after %d attempts", ErrUpdateConflict, l.maxRetries)
}
