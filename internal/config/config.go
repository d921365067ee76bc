// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"

	"github.com/okian/talentrank/internal/domain/model"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory decision queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of decision workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the decision deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxTopK caps GET /recommendations?k.
	MaxTopK int `koanf:"max_top_k"`

	// MaxRankingLimit caps GET /ranking?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// LearningRate is the default step size for weight updates.
	LearningRate float64 `koanf:"learning_rate"`

	// MaxUpdateRetries bounds compare-and-swap retries per update.
	MaxUpdateRetries int `koanf:"max_update_retries"`

	// SaturationYears is the experience at which the experience score
	// saturates when a job gives no target range.
	SaturationYears int `koanf:"saturation_years"`

	// EducationBands maps degree level names to education scores.
	EducationBands map[string]float64 `koanf:"education_bands"`

	// MSDCutoff is the mean score difference above which an audit flags
	// bias, in score points.
	MSDCutoff float64 `koanf:"msd_cutoff"`

	// DIRLow and DIRHigh bound the acceptable disparate impact ratio.
	DIRLow  float64 `koanf:"dir_low"`
	DIRHigh float64 `koanf:"dir_high"`

	// WarningMarginMSD and WarningMarginDIR widen the fair band into a
	// warning zone near the cutoffs.
	WarningMarginMSD float64 `koanf:"warning_margin_msd"`
	WarningMarginDIR float64 `koanf:"warning_margin_dir"`

	// DefaultAuditThreshold is the selection cutoff used when an audit
	// request omits one.
	DefaultAuditThreshold float64 `koanf:"default_audit_threshold"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		QueueSize:             10_000,
		WorkerCount:           runtime.NumCPU() * 2,
		DedupeSize:            50_000,
		MaxTopK:               50,
		MaxRankingLimit:       500,
		LearningRate:          0.1,
		MaxUpdateRetries:      5,
		SaturationYears:       10,
		EducationBands:        map[string]float64{},
		MSDCutoff:             10,
		DIRLow:                0.8,
		DIRHigh:               1.2,
		WarningMarginMSD:      2,
		WarningMarginDIR:      0.05,
		DefaultAuditThreshold: 10,
	}
}

// DegreeBands resolves the configured band names against known degree
// levels. Unknown names are ignored; an empty result means the scoring
// engine keeps its built-in table.
func (c *Config) DegreeBands() map[model.DegreeLevel]float64 {
	if len(c.EducationBands) == 0 {
		return nil
	}
	bands := make(map[model.DegreeLevel]float64, len(c.EducationBands))
	for _, level := range model.DegreeLevels() {
		if score, ok := c.EducationBands[level.String()]; ok {
			bands[level] = score
		}
	}
	if len(bands) == 0 {
		return nil
	}
	return bands
}
