// Package types contains shared read shapes returned by engine queries.
package types

// RankEntry is one row of a job's ranked candidate list. MatchScore is the
// tie-break key for equal overall scores; applicant id breaks remaining ties.
type RankEntry struct {
	Rank         int     `json:"rank"`
	ApplicantID  string  `json:"applicant_id"`
	OverallScore float64 `json:"overall_score"`
	MatchScore   float64 `json:"match_score"`
}

// Recommendation is one top-K match (a job for an applicant, or a candidate
// for a job).
type Recommendation struct {
	EntityID        string  `json:"entity_id"`
	Title           string  `json:"title,omitempty"`
	MatchPercentage float64 `json:"match_percentage"`
}

// FeedbackEntry is one decision submitted in a feedback batch.
type FeedbackEntry struct {
	ApplicationID string `json:"application_id"`
	Hired         bool   `json:"hired"`
}
