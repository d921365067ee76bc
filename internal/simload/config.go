package simload

import "time"

// Config holds configuration for a synthetic load run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumApplicants int           // Number of applicants to generate
	NumJobs       int           // Number of jobs to generate
	TopN          int           // Number of ranking entries to fetch per job
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	LogFile       string        // Log file for run output
	Verbose       bool          // Enable verbose logging
}

// Applicant is the intake payload for a synthetic applicant.
type Applicant struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	ResumeText      string   `json:"resume_text"`
	Group           string   `json:"group,omitempty"`
}

// Job is the intake payload for a synthetic job posting.
type Job struct {
	ID             string   `json:"id,omitempty"`
	RecruiterID    string   `json:"recruiter_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	MinYears       int      `json:"min_years"`
}

// Application links a generated applicant to a generated job.
type Application struct {
	ID          string `json:"id,omitempty"`
	ApplicantID string `json:"applicant_id"`
	JobID       string `json:"job_id"`
	RecruiterID string `json:"recruiter_id"`
}

// ScoreRequest asks the engine to score a pair.
type ScoreRequest struct {
	ApplicantID string `json:"applicant_id"`
	JobID       string `json:"job_id"`
}

// ScoreResponse is the subset of the score record the run inspects.
type ScoreResponse struct {
	ApplicantID  string  `json:"applicant_id"`
	JobID        string  `json:"job_id"`
	OverallScore float64 `json:"overall_score"`
}

// Decision is a recruiter decision payload.
type Decision struct {
	ApplicationID string `json:"application_id"`
	Hired         bool   `json:"hired"`
	Notes         string `json:"notes,omitempty"`
}

// AckResponse is the response from decision submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// RankEntry is one row of a job's ranking.
type RankEntry struct {
	Rank         int     `json:"rank"`
	ApplicantID  string  `json:"applicant_id"`
	OverallScore float64 `json:"overall_score"`
}

// AuditResponse is the subset of an audit result the run inspects.
type AuditResponse struct {
	Status     string  `json:"status"`
	MSD        float64 `json:"msd"`
	SampleSize int     `json:"sample_size"`
}

// Stats holds run statistics.
type Stats struct {
	ApplicantsCreated  int
	JobsCreated        int
	ApplicationsFiled  int
	ScoresComputed     int
	DecisionsSubmitted int
	DecisionsDuplicate int
	DecisionsFailed    int
	RankingsRetrieved  int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
