package model

// WeightVector weighs the four scoring factors. Weights are non-negative and
// are normalized to sum to 1 before use.
type WeightVector struct {
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Match      float64 `json:"match"`
}

// DefaultWeights is the built-in baseline used when no scope specializes it.
func DefaultWeights() WeightVector {
	return WeightVector{Skill: 0.25, Experience: 0.25, Education: 0.25, Match: 0.25}
}

// Sum returns the total of all four weights.
func (w WeightVector) Sum() float64 {
	return w.Skill + w.Experience + w.Education + w.Match
}

// Clamped returns a copy with negative entries raised to zero.
func (w WeightVector) Clamped() WeightVector {
	return WeightVector{
		Skill:      max(w.Skill, 0),
		Experience: max(w.Experience, 0),
		Education:  max(w.Education, 0),
		Match:      max(w.Match, 0),
	}
}

// Normalized returns a copy scaled to sum to 1. A vector with a non-positive
// sum falls back to the default weights.
func (w WeightVector) Normalized() WeightVector {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights()
	}
	return WeightVector{
		Skill:      w.Skill / sum,
		Experience: w.Experience / sum,
		Education:  w.Education / sum,
		Match:      w.Match / sum,
	}
}

// Scope identifies the (recruiter, job) specialization of a weight vector.
// Zero values fall back to broader scopes; the zero Scope is the global
// default.
type Scope struct {
	RecruiterID string `json:"recruiter_id,omitempty"`
	JobID       string `json:"job_id,omitempty"`
}

// IsGlobal reports whether the scope is the global default.
func (s Scope) IsGlobal() bool {
	return s.RecruiterID == "" && s.JobID == ""
}

// Chain returns the scope's fallback resolution order, from most to least
// specific, ending at the global scope.
func (s Scope) Chain() []Scope {
	chain := []Scope{s}
	if s.JobID != "" {
		chain = append(chain, Scope{RecruiterID: s.RecruiterID})
	}
	if s.RecruiterID != "" {
		chain = append(chain, Scope{})
	}
	return chain
}
