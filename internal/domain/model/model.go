// Package model contains domain records passed between layers.
package model

import (
	"strings"
	"time"
)

// Outcome is a recruiter's hiring decision for an application.
type Outcome string

// Possible decision outcomes.
const (
	OutcomeHired    Outcome = "hired"
	OutcomeRejected Outcome = "rejected"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeHired || o == OutcomeRejected
}

// Education is a single education entry on an applicant profile.
type Education struct {
	Degree      string
	Institution string
	Year        int
}

// WorkExperience is a single work history entry on an applicant profile.
type WorkExperience struct {
	Title       string
	Company     string
	Description string
	Years       float64
}

// ApplicantProfile is a parsed applicant record. Profiles are produced by
// external intake and are read-only inputs to the engine.
type ApplicantProfile struct {
	ID              string
	Name            string
	Skills          SkillSet
	ExperienceYears int
	Education       []Education
	WorkExperience  []WorkExperience
	ResumeText      string

	// Group is an optional demographic tag consumed only by fairness
	// audits, never by scoring.
	Group string
}

// JobProfile is a job posting record.
type JobProfile struct {
	ID             string
	RecruiterID    string
	Title          string
	Description    string
	Requirements   string
	RequiredSkills SkillSet

	// MinYears and MaxYears bound the target experience range.
	// Zero means unspecified.
	MinYears int
	MaxYears int
}

// Text returns the job's combined free text used for match scoring.
func (j JobProfile) Text() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{j.Title, j.Description, j.Requirements} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}

// Application links an applicant to a job under a recruiter. Decisions are
// recorded against applications.
type Application struct {
	ID          string
	ApplicantID string
	JobID       string
	RecruiterID string
}

// FeedbackRecord is one recruiter decision captured for weight adaptation.
// The feedback log is append-only.
type FeedbackRecord struct {
	ID            string
	RecruiterID   string
	JobID         string
	ApplicationID string
	Outcome       Outcome
	Notes         string
	CreatedAt     time.Time
}
