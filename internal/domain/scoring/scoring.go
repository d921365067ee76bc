// Package scoring computes multi-factor match scores for applicant/job pairs.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/similarity"
	"github.com/okian/talentrank/pkg/metrics"
)

// Default scoring configuration constants.
const (
	maxScoreValue          = 100
	defaultSaturationYears = 10
)

// ScoreRecord is the immutable result of one score computation. Records are
// never mutated; recomputing a pair supersedes the previous record.
type ScoreRecord struct {
	ID          string `json:"id"`
	ApplicantID string `json:"applicant_id"`
	JobID       string `json:"job_id"`

	SkillScore      float64 `json:"skill_score"`
	ExperienceScore float64 `json:"experience_score"`
	EducationScore  float64 `json:"education_score"`
	MatchScore      float64 `json:"match_score"`
	OverallScore    float64 `json:"overall_score"`

	// Weights is the normalized vector snapshot the overall score was
	// combined with; WeightVersion is the store version it was read at.
	Weights       model.WeightVector `json:"weights"`
	WeightVersion uint64             `json:"weight_version"`

	CreatedAt time.Time `json:"created_at"`
}

// Engine computes ScoreRecords. It holds only configuration; Score is a pure
// function of its inputs plus the weight snapshot, so results are
// reproducible given the same weight version.
type Engine struct {
	bands           map[model.DegreeLevel]float64
	saturationYears int
	sim             similarity.Scorer
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		bands:           DefaultEducationBands(),
		saturationYears: defaultSaturationYears,
		sim:             similarity.NewLexicalScorer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultEducationBands returns the built-in degree-to-score lookup table.
// The table is configuration, not code: deployments tune it without touching
// the scoring formula.
func DefaultEducationBands() map[model.DegreeLevel]float64 {
	return map[model.DegreeLevel]float64{
		model.DegreeNone:      0,
		model.DegreeAssociate: 40,
		model.DegreeBachelor:  60,
		model.DegreeMaster:    80,
		model.DegreeDoctorate: 100,
	}
}

// Score computes the four sub-scores and their weighted combination for an
// applicant/job pair. The weight vector is re-normalized to sum 1 before use,
// so the result is invariant under uniform scaling of weights.
func (e *Engine) Score(ctx context.Context, applicant model.ApplicantProfile, job model.JobProfile, weights model.WeightVector, weightVersion uint64) (ScoreRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := validateInputs(applicant, job); err != nil {
		metrics.RecordScoringError()
		return ScoreRecord{}, err
	}

	skill := skillScore(applicant.Skills, job.RequiredSkills)
	experience := e.experienceScore(applicant.ExperienceYears, job.MinYears)
	education := e.educationScore(applicant.Education)

	match, err := e.sim.MatchScore(ctx, applicant.ResumeText, job.Text())
	if err != nil {
		metrics.RecordScoringError()
		return ScoreRecord{}, fmt.Errorf("match score: %w", err)
	}
	match = clamp(match, 0, maxScoreValue)

	w := weights.Clamped().Normalized()
	overall := w.Skill*skill + w.Experience*experience + w.Education*education + w.Match*match

	metrics.RecordScoreComputed()
	return ScoreRecord{
		ID:              uuid.NewString(),
		ApplicantID:     applicant.ID,
		JobID:           job.ID,
		SkillScore:      skill,
		ExperienceScore: experience,
		EducationScore:  education,
		MatchScore:      match,
		OverallScore:    overall,
		Weights:         w,
		WeightVersion:   weightVersion,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func validateInputs(applicant model.ApplicantProfile, job model.JobProfile) error {
	switch {
	case applicant.ID == "":
		return fmt.Errorf("%w: applicant id is required", ErrInvalidInput)
	case applicant.ExperienceYears < 0:
		return fmt.Errorf("%w: experience years must be non-negative", ErrInvalidInput)
	case job.ID == "":
		return fmt.Errorf("%w: job id is required", ErrInvalidInput)
	case job.MinYears < 0 || job.MaxYears < 0:
		return fmt.Errorf("%w: experience range must be non-negative", ErrInvalidInput)
	}
	// An absent skills list is an empty set, not an error.
	return nil
}

// skillScore is the fraction of required skills the applicant covers, or 0
// when the job requires none.
func skillScore(skills, required model.SkillSet) float64 {
	if len(required) == 0 {
		return 0
	}
	overlap := skills.Intersect(required)
	return maxScoreValue * float64(len(overlap)) / float64(len(required))
}

// experienceScore scales years against the job's target, or saturates against
// the configured ceiling when the job leaves the range unspecified.
func (e *Engine) experienceScore(years, targetYears int) float64 {
	if targetYears > 0 {
		return clamp(maxScoreValue*float64(years)/float64(targetYears), 0, maxScoreValue)
	}
	return clamp(maxScoreValue*float64(years)/float64(e.saturationYears), 0, maxScoreValue)
}

func (e *Engine) educationScore(entries []model.Education) float64 {
	band, ok := e.bands[model.HighestDegree(entries)]
	if !ok {
		return 0
	}
	return clamp(band, 0, maxScoreValue)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
