// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/talentrank/internal/domain/explain"
	"github.com/okian/talentrank/internal/domain/fairness"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/recommend"
	"github.com/okian/talentrank/internal/domain/scoring"
	"github.com/okian/talentrank/internal/domain/types"
)

// Dependencies required by HTTP handlers. The interface bundle keeps the
// handler layer loosely coupled to the service wiring behind it.
type Dependencies interface {
	// Profile intake. Profiles are read-only inputs to the engine.
	CreateApplicant(ctx context.Context, p model.ApplicantProfile) (model.ApplicantProfile, error)
	GetApplicant(ctx context.Context, id string) (model.ApplicantProfile, error)
	CreateJob(ctx context.Context, j model.JobProfile) (model.JobProfile, error)
	GetJob(ctx context.Context, id string) (model.JobProfile, error)
	CreateApplication(ctx context.Context, a model.Application) (model.Application, error)

	// Engine operations.
	ScorePair(ctx context.Context, applicantID, jobID, recruiterID string) (scoring.ScoreRecord, error)
	GetWeights(ctx context.Context, scope model.Scope) (model.WeightVector, uint64, error)
	SubmitFeedback(ctx context.Context, scope model.Scope, entries []types.FeedbackEntry, learningRate float64) (model.WeightVector, uint64, error)
	RecordDecision(ctx context.Context, applicationID string, hired bool, notes string) (bool, error)
	AuditFairness(ctx context.Context, jobID string, params fairness.Params) (fairness.Metric, error)
	FairnessHistory(ctx context.Context, jobID string) ([]fairness.Metric, error)
	Rank(ctx context.Context, jobID string, limit int) ([]types.RankEntry, error)
	Recommend(ctx context.Context, anchorID string, direction recommend.Direction, k int) ([]types.Recommendation, error)
	Explain(ctx context.Context, applicantID, jobID string) (explain.Explanation, error)
}

// StatsProvider exposes service counters for the stats endpoint.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	profilesHandler  *ProfilesHandler
	scoreHandler     *ScoreHandler
	weightsHandler   *WeightsHandler
	feedbackHandler  *FeedbackHandler
	decisionHandler  *DecisionHandler
	fairnessHandler  *FairnessHandler
	rankingHandler   *RankingHandler
	recommendHandler *RecommendHandler
	explainHandler   *ExplainHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
}

// ServerOption configures the API server.
type ServerOption func(*Server)

// WithAuditThreshold sets the selection threshold used by fairness audits
// when the request omits one.
func WithAuditThreshold(threshold float64) ServerOption {
	return func(s *Server) {
		if threshold > 0 {
			s.fairnessHandler.threshold = threshold
		}
	}
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, stats StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		profilesHandler:  NewProfilesHandler(deps),
		scoreHandler:     NewScoreHandler(deps),
		weightsHandler:   NewWeightsHandler(deps),
		feedbackHandler:  NewFeedbackHandler(deps),
		decisionHandler:  NewDecisionHandler(deps),
		fairnessHandler:  NewFairnessHandler(deps),
		rankingHandler:   NewRankingHandler(deps),
		recommendHandler: NewRecommendHandler(deps),
		explainHandler:   NewExplainHandler(deps),
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(stats),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/applicants", MetricsMiddleware(s.profilesHandler.HandleApplicants, "applicants"))
	mux.HandleFunc("/applicants/", MetricsMiddleware(s.profilesHandler.HandleApplicantByID, "applicants"))
	mux.HandleFunc("/jobs", MetricsMiddleware(s.profilesHandler.HandleJobs, "jobs"))
	mux.HandleFunc("/jobs/", MetricsMiddleware(s.profilesHandler.HandleJobByID, "jobs"))
	mux.HandleFunc("/applications", MetricsMiddleware(s.profilesHandler.HandleApplications, "applications"))

	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/weights", MetricsMiddleware(s.weightsHandler.HandleGetWeights, "weights"))
	mux.HandleFunc("/feedback", MetricsMiddleware(s.feedbackHandler.HandleFeedback, "feedback"))
	mux.HandleFunc("/decision", MetricsMiddleware(s.decisionHandler.HandleDecision, "decision"))
	mux.HandleFunc("/fairness/audit", MetricsMiddleware(s.fairnessHandler.HandleAudit, "fairness_audit"))
	mux.HandleFunc("/fairness/history", MetricsMiddleware(s.fairnessHandler.HandleHistory, "fairness_history"))
	mux.HandleFunc("/ranking/", MetricsMiddleware(s.rankingHandler.HandleGetRanking, "ranking"))
	mux.HandleFunc("/recommendations/jobs/", MetricsMiddleware(s.recommendHandler.HandleJobsForApplicant, "recommendations"))
	mux.HandleFunc("/recommendations/candidates/", MetricsMiddleware(s.recommendHandler.HandleCandidatesForJob, "recommendations"))
	mux.HandleFunc("/explanation/", MetricsMiddleware(s.explainHandler.HandleGetExplanation, "explanation"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates a domain error kind into an HTTP response.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := statusForError(err)
	writeError(w, status, code, err)
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
