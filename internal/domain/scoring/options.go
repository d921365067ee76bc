package scoring

import (
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/similarity"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithEducationBands replaces the degree-to-score lookup table. Unknown band
// names in the source config are dropped by the config loader, so the map
// here is already keyed by degree level.
func WithEducationBands(bands map[model.DegreeLevel]float64) Option {
	return func(e *Engine) {
		if len(bands) == 0 {
			return
		}
		e.bands = make(map[model.DegreeLevel]float64, len(bands))
		for level, score := range bands {
			e.bands[level] = score
		}
	}
}

// WithSaturationYears sets the years at which experience saturates when a job
// does not specify a target range.
func WithSaturationYears(years int) Option {
	return func(e *Engine) {
		if years > 0 {
			e.saturationYears = years
		}
	}
}

// WithSimilarityScorer swaps the text-similarity collaborator.
func WithSimilarityScorer(s similarity.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.sim = s
		}
	}
}
