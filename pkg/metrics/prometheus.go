// Package metrics provides Prometheus metrics for the scoring engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus registry and every engine metric.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Scoring
	scoresComputed prometheus.Counter
	scoringLatency prometheus.Histogram
	scoringErrors  prometheus.Counter

	// Weight adaptation
	weightUpdates         prometheus.Counter
	weightUpdateConflicts prometheus.Counter
	weightUpdateFailures  prometheus.Counter
	weightScopes          prometheus.Gauge

	// Feedback / decisions
	feedbackRecorded  prometheus.Counter
	decisionsAccepted prometheus.Counter
	decisionsDropped  prometheus.Counter

	// Fairness
	auditsRun    prometheus.Counter
	auditsBiased prometheus.Counter
	auditLatency prometheus.Histogram

	// Ranking / recommendations
	rankingQueries        prometheus.Counter
	rankingLatency        prometheus.Histogram
	recommendationQueries prometheus.Counter
	recommendationLatency prometheus.Histogram

	// Stores
	profilesTotal     *prometheus.GaugeVec
	scoreRecordsTotal prometheus.Gauge

	// Queue / workers
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	workerCount      prometheus.Gauge
	workerErrors     prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors by component
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
}

// NewManager builds a Manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talentrank",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	factory := promauto.With(m.registry)
	ns := m.namespace

	m.scoresComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "scores_computed_total",
		Help: "Total number of score records produced.",
	})
	m.scoringLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns, Name: "scoring_latency_ms",
		Help: "Latency of score computation in milliseconds.", Buckets: m.histogramBuckets,
	})
	m.scoringErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "scoring_errors_total",
		Help: "Total number of failed score computations.",
	})

	m.weightUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "weight_updates_total",
		Help: "Total number of accepted weight vector updates.",
	})
	m.weightUpdateConflicts = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "weight_update_conflicts_total",
		Help: "Total number of compare-and-swap version conflicts.",
	})
	m.weightUpdateFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "weight_update_failures_total",
		Help: "Total number of weight updates abandoned after retry exhaustion.",
	})
	m.weightScopes = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "weight_scopes",
		Help: "Number of specialized weight scopes currently stored.",
	})

	m.feedbackRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "feedback_recorded_total",
		Help: "Total number of feedback records appended to the log.",
	})
	m.decisionsAccepted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "decisions_accepted_total",
		Help: "Total number of hiring decisions accepted for async learning.",
	})
	m.decisionsDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "decisions_dropped_total",
		Help: "Total number of hiring decisions dropped (backpressure or duplicate).",
	})

	m.auditsRun = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "fairness_audits_total",
		Help: "Total number of fairness audits executed.",
	})
	m.auditsBiased = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "fairness_audits_biased_total",
		Help: "Total number of audits that detected bias.",
	})
	m.auditLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns, Name: "fairness_audit_latency_ms",
		Help: "Latency of fairness audits in milliseconds.", Buckets: m.histogramBuckets,
	})

	m.rankingQueries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "ranking_queries_total",
		Help: "Total number of ranking queries served.",
	})
	m.rankingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns, Name: "ranking_latency_ms",
		Help: "Latency of ranking queries in milliseconds.", Buckets: m.histogramBuckets,
	})
	m.recommendationQueries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "recommendation_queries_total",
		Help: "Total number of recommendation queries served.",
	})
	m.recommendationLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns, Name: "recommendation_latency_ms",
		Help: "Latency of recommendation queries in milliseconds.", Buckets: m.histogramBuckets,
	})

	m.profilesTotal = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: ns, Name: "profiles",
		Help: "Number of stored profiles by kind.",
	}, []string{"kind"})
	m.scoreRecordsTotal = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "score_records",
		Help: "Number of score records held in the store (including superseded).",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "decision_queue_size",
		Help: "Current depth of the decision queue.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "decision_queue_capacity",
		Help: "Configured capacity of the decision queue.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "decision_queue_utilization",
		Help: "Decision queue fill ratio (0-1).",
	})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "learning_workers",
		Help: "Number of learning workers running.",
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "learning_worker_errors_total",
		Help: "Total number of errors inside learning workers.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "http_requests_total",
		Help: "Total HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns, Name: "http_request_duration_ms",
		Help: "HTTP request duration in milliseconds.", Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "errors_total",
		Help: "Errors by component and type.",
	}, []string{"component", "type"})

	m.systemMemoryBytes = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "system_memory_bytes",
		Help: "Heap bytes currently allocated.",
	})
	m.systemGoroutines = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "system_goroutines",
		Help: "Number of live goroutines.",
	})
}

// Registry exposes the manager's registry for HTTP serving.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

var defaultManager = NewManager()

// GetRegistry returns the default manager's registry.
func GetRegistry() *prometheus.Registry { return defaultManager.Registry() }

// Package-level helpers over the default manager.

func RecordScoreComputed()            { defaultManager.scoresComputed.Inc() }
func RecordScoringLatency(ms float64) { defaultManager.scoringLatency.Observe(ms) }
func RecordScoringError()             { defaultManager.scoringErrors.Inc() }
func RecordWeightUpdate()             { defaultManager.weightUpdates.Inc() }
func RecordWeightUpdateConflict()     { defaultManager.weightUpdateConflicts.Inc() }
func RecordWeightUpdateFailure()      { defaultManager.weightUpdateFailures.Inc() }
func UpdateWeightScopes(n int)        { defaultManager.weightScopes.Set(float64(n)) }
func RecordFeedbackRecorded()         { defaultManager.feedbackRecorded.Inc() }
func RecordDecisionAccepted()         { defaultManager.decisionsAccepted.Inc() }
func RecordDecisionDropped()          { defaultManager.decisionsDropped.Inc() }
func RecordAuditRun()                 { defaultManager.auditsRun.Inc() }
func RecordAuditBiased()              { defaultManager.auditsBiased.Inc() }
func RecordAuditLatency(ms float64)   { defaultManager.auditLatency.Observe(ms) }
func RecordRankingQuery()             { defaultManager.rankingQueries.Inc() }
func RecordRankingLatency(ms float64) { defaultManager.rankingLatency.Observe(ms) }
func RecordRecommendationQuery()      { defaultManager.recommendationQueries.Inc() }
func RecordRecommendationLatency(ms float64) {
	defaultManager.recommendationLatency.Observe(ms)
}

func UpdateProfileCount(kind string, n int) {
	defaultManager.profilesTotal.WithLabelValues(kind).Set(float64(n))
}
func UpdateScoreRecordCount(n int) { defaultManager.scoreRecordsTotal.Set(float64(n)) }

func UpdateQueueSize(n int)            { defaultManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)        { defaultManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(r float64) { defaultManager.queueUtilization.Set(r) }
func UpdateWorkerCount(n int)          { defaultManager.workerCount.Set(float64(n)) }
func RecordWorkerError()               { defaultManager.workerErrors.Inc() }

func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	defaultManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

func RecordErrorByComponent(component, errorType string) {
	defaultManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

func UpdateSystemMemoryUsage(bytes uint64) {
	defaultManager.systemMemoryBytes.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(n int) {
	defaultManager.systemGoroutines.Set(float64(n))
}
