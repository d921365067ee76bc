// Package fairness audits score distributions for demographic bias.
package fairness

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/okian/talentrank/internal/domain/scoring"
	"github.com/okian/talentrank/pkg/logger"
	"github.com/okian/talentrank/pkg/metrics"
)

// Score keys an audit can be run over.
const (
	ScoreKeyOverall    = "overall"
	ScoreKeySkill      = "skill"
	ScoreKeyExperience = "experience"
	ScoreKeyEducation  = "education"
	ScoreKeyMatch      = "match"
)

// Default audit thresholds. MSD is in score points; DIR bounds follow the
// 80% rule with a symmetric upper bound.
const (
	defaultMSDCutoff     = 10.0
	defaultDIRLow        = 0.8
	defaultDIRHigh       = 1.2
	defaultWarnMarginMSD = 2.0
	defaultWarnMarginDIR = 0.05
)

// Status classifies an audit result.
type Status string

// Audit statuses, ordered by severity.
const (
	StatusFair    Status = "fair"
	StatusWarning Status = "warning"
	StatusBiased  Status = "biased"
)

// Sample is one scored applicant joined with its demographic group. Samples
// with an empty group are excluded from the audit.
type Sample struct {
	ApplicantID string
	Group       string
	Record      scoring.ScoreRecord
}

// Params configure a single audit run.
type Params struct {
	GroupKey  string
	ScoreKey  string
	Threshold float64
}

// GroupStats is the per-group score distribution within one audit.
type GroupStats struct {
	Group         string  `json:"group"`
	Count         int     `json:"count"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"std_dev"`
	Selected      int     `json:"selected"`
	SelectionRate float64 `json:"selection_rate"`
}

// Metric is the immutable result of one audit run. Runs append to history,
// never overwrite, so per-job trends stay queryable.
type Metric struct {
	ID        string  `json:"id"`
	JobID     string  `json:"job_id,omitempty"`
	GroupKey  string  `json:"group_key"`
	ScoreKey  string  `json:"score_key"`
	Threshold float64 `json:"threshold"`

	Groups []GroupStats `json:"groups"`

	// MSD is the mean score difference between the best and worst
	// scoring groups, in score points.
	MSD float64 `json:"msd"`

	// DIR is the disparate impact ratio, lowest selection rate over
	// highest. Nil when no group selects anyone at the threshold.
	DIR *float64 `json:"dir"`

	BiasMagnitude float64   `json:"bias_magnitude"`
	BiasDetected  bool      `json:"bias_detected"`
	Status        Status    `json:"status"`
	SampleSize    int       `json:"sample_size"`
	CreatedAt     time.Time `json:"created_at"`
}

// History receives completed audit metrics. Implementations must be
// append-only.
type History interface {
	Append(ctx context.Context, m Metric) error
}

// Auditor computes fairness metrics over point-in-time score snapshots.
type Auditor struct {
	msdCutoff     float64
	dirLow        float64
	dirHigh       float64
	warnMarginMSD float64
	warnMarginDIR float64
	history       History
	logger        logger.Logger
}

// Option applies a configuration option to the Auditor.
type Option func(*Auditor)

// WithMSDCutoff sets the mean score difference above which bias is flagged.
func WithMSDCutoff(points float64) Option {
	return func(a *Auditor) {
		if points > 0 {
			a.msdCutoff = points
		}
	}
}

// WithDIRBounds sets the acceptable disparate impact ratio range.
func WithDIRBounds(low, high float64) Option {
	return func(a *Auditor) {
		if low > 0 && high > low {
			a.dirLow = low
			a.dirHigh = high
		}
	}
}

// WithWarningMargins sets how close to the cutoffs a fair result must be to
// be downgraded to a warning.
func WithWarningMargins(msd, dir float64) Option {
	return func(a *Auditor) {
		if msd >= 0 {
			a.warnMarginMSD = msd
		}
		if dir >= 0 {
			a.warnMarginDIR = dir
		}
	}
}

// WithHistory sets the append-only sink for completed audits.
func WithHistory(h History) Option {
	return func(a *Auditor) {
		a.history = h
	}
}

// WithLogger sets a custom logger for the auditor.
func WithLogger(log logger.Logger) Option {
	return func(a *Auditor) {
		if log != nil {
			a.logger = log
		}
	}
}

// NewAuditor creates an auditor with configuration options.
func NewAuditor(opts ...Option) *Auditor {
	a := &Auditor{
		msdCutoff:     defaultMSDCutoff,
		dirLow:        defaultDIRLow,
		dirHigh:       defaultDIRHigh,
		warnMarginMSD: defaultWarnMarginMSD,
		warnMarginDIR: defaultWarnMarginDIR,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("fairness")
	}
	return a
}

// Audit groups the samples by demographic group, computes per-group score
// statistics plus MSD and DIR, classifies the result, and appends it to
// history. The sample slice is a point-in-time snapshot; scores created
// after it was taken do not affect this audit.
func (a *Auditor) Audit(ctx context.Context, jobID string, samples []Sample, params Params) (Metric, error) {
	start := time.Now()
	value, err := scoreSelector(params.ScoreKey)
	if err != nil {
		return Metric{}, err
	}

	byGroup := make(map[string][]float64)
	total := 0
	for _, s := range samples {
		if s.Group == "" {
			continue
		}
		byGroup[s.Group] = append(byGroup[s.Group], value(s.Record))
		total++
	}
	if len(byGroup) < 2 {
		return Metric{}, fmt.Errorf("%w: need at least 2 demographic groups, have %d", ErrInsufficientData, len(byGroup))
	}

	groups := make([]GroupStats, 0, len(byGroup))
	for name, scores := range byGroup {
		groups = append(groups, groupStats(name, scores, params.Threshold))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })

	msd, dir := disparity(groups)
	m := Metric{
		ID:            uuid.NewString(),
		JobID:         jobID,
		GroupKey:      params.GroupKey,
		ScoreKey:      params.ScoreKey,
		Threshold:     params.Threshold,
		Groups:        groups,
		MSD:           msd,
		DIR:           dir,
		BiasMagnitude: msd,
		SampleSize:    total,
		CreatedAt:     time.Now().UTC(),
	}
	m.BiasDetected, m.Status = a.classify(msd, dir)

	if a.history != nil {
		if err := a.history.Append(ctx, m); err != nil {
			return Metric{}, fmt.Errorf("append audit history: %w", err)
		}
	}
	metrics.RecordAuditRun()
	metrics.RecordAuditLatency(float64(time.Since(start).Milliseconds()))
	if m.Status == StatusBiased {
		metrics.RecordAuditBiased()
	}
	a.logger.Info(ctx, "fairness audit completed",
		logger.String("jobID", jobID),
		logger.String("status", string(m.Status)),
		logger.Float64("msd", msd),
		logger.Int("sampleSize", total),
	)
	return m, nil
}

// classify applies the cutoffs and warning margins to a computed disparity.
func (a *Auditor) classify(msd float64, dir *float64) (bool, Status) {
	biased := msd > a.msdCutoff
	if dir != nil && (*dir < a.dirLow || *dir > a.dirHigh) {
		biased = true
	}
	if biased {
		return true, StatusBiased
	}

	warning := msd > a.msdCutoff-a.warnMarginMSD
	if dir != nil && (*dir < a.dirLow+a.warnMarginDIR || *dir > a.dirHigh-a.warnMarginDIR) {
		warning = true
	}
	if warning {
		return false, StatusWarning
	}
	return false, StatusFair
}

// disparity computes MSD over group means and DIR over selection rates.
// DIR is nil when the highest selection rate is zero.
func disparity(groups []GroupStats) (float64, *float64) {
	minMean, maxMean := groups[0].Mean, groups[0].Mean
	minRate, maxRate := groups[0].SelectionRate, groups[0].SelectionRate
	for _, g := range groups[1:] {
		minMean = math.Min(minMean, g.Mean)
		maxMean = math.Max(maxMean, g.Mean)
		minRate = math.Min(minRate, g.SelectionRate)
		maxRate = math.Max(maxRate, g.SelectionRate)
	}

	var dir *float64
	if maxRate > 0 {
		ratio := minRate / maxRate
		dir = &ratio
	}
	return maxMean - minMean, dir
}

// groupStats computes mean, population standard deviation, and the selection
// rate at the threshold for one group's scores.
func groupStats(name string, scores []float64, threshold float64) GroupStats {
	sum := 0.0
	selected := 0
	for _, s := range scores {
		sum += s
		if s >= threshold {
			selected++
		}
	}
	n := float64(len(scores))
	mean := sum / n

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}

	return GroupStats{
		Group:         name,
		Count:         len(scores),
		Mean:          mean,
		StdDev:        math.Sqrt(variance / n),
		Selected:      selected,
		SelectionRate: float64(selected) / n,
	}
}

// scoreSelector maps a score key to a record field accessor.
func scoreSelector(key string) (func(scoring.ScoreRecord) float64, error) {
	switch key {
	case ScoreKeyOverall, "":
		return func(r scoring.ScoreRecord) float64 { return r.OverallScore }, nil
	case ScoreKeySkill:
		return func(r scoring.ScoreRecord) float64 { return r.SkillScore }, nil
	case ScoreKeyExperience:
		return func(r scoring.ScoreRecord) float64 { return r.ExperienceScore }, nil
	case ScoreKeyEducation:
		return func(r scoring.ScoreRecord) float64 { return r.EducationScore }, nil
	case ScoreKeyMatch:
		return func(r scoring.ScoreRecord) float64 { return r.MatchScore }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScoreKey, key)
	}
}
