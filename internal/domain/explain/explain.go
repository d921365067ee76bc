// Package explain decomposes score records into per-factor breakdowns.
package explain

import (
	"math"

	"github.com/okian/talentrank/internal/domain/scoring"
)

// Factor names used as breakdown keys.
const (
	FactorSkill      = "skill"
	FactorExperience = "experience"
	FactorEducation  = "education"
	FactorMatch      = "match"
)

// reconcileTolerance bounds the accepted drift between the sum of
// contributions and the recorded overall score.
const reconcileTolerance = 1e-6

// FactorBreakdown is one factor's share of the overall score.
type FactorBreakdown struct {
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Explanation is the numeric breakdown of one score record. Prose generation
// is an external collaborator; this is the data it consumes.
type Explanation struct {
	ApplicantID   string                     `json:"applicant_id"`
	JobID         string                     `json:"job_id"`
	OverallScore  float64                    `json:"overall_score"`
	WeightVersion uint64                     `json:"weight_version"`
	Factors       map[string]FactorBreakdown `json:"factors"`
	TopFactor     string                     `json:"top_factor"`
	Reconciled    bool                       `json:"reconciled"`
}

// Explain breaks a score record into per-factor {score, weight, contribution}
// entries, where contribution = weight * score. Reconciled reports whether the
// contributions sum back to the recorded overall score within tolerance; a
// false value indicates a corrupted or hand-built record.
func Explain(rec scoring.ScoreRecord) Explanation {
	w := rec.Weights.Clamped().Normalized()

	factors := map[string]FactorBreakdown{
		FactorSkill:      {Score: rec.SkillScore, Weight: w.Skill, Contribution: w.Skill * rec.SkillScore},
		FactorExperience: {Score: rec.ExperienceScore, Weight: w.Experience, Contribution: w.Experience * rec.ExperienceScore},
		FactorEducation:  {Score: rec.EducationScore, Weight: w.Education, Contribution: w.Education * rec.EducationScore},
		FactorMatch:      {Score: rec.MatchScore, Weight: w.Match, Contribution: w.Match * rec.MatchScore},
	}

	sum := 0.0
	top := FactorSkill
	for _, name := range []string{FactorSkill, FactorExperience, FactorEducation, FactorMatch} {
		fb := factors[name]
		sum += fb.Contribution
		if fb.Contribution > factors[top].Contribution {
			top = name
		}
	}

	return Explanation{
		ApplicantID:   rec.ApplicantID,
		JobID:         rec.JobID,
		OverallScore:  rec.OverallScore,
		WeightVersion: rec.WeightVersion,
		Factors:       factors,
		TopFactor:     top,
		Reconciled:    math.Abs(sum-rec.OverallScore) <= reconcileTolerance,
	}
}
