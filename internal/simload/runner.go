package simload

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/talentrank/pkg/logger"
)

// Settle delay between decision submission and verification, giving the
// async weight updates time to land.
const decisionSettleDelay = 2 * time.Second

const percentageMultiplier = 100

// Run executes the complete load run.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting talentrank load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("applicants", config.NumApplicants),
		logger.Int("jobs", config.NumJobs),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	client := newHTTPClient(config.Timeout)

	// Step 1: Create profiles.
	applicantIDs, err := createApplicants(ctx, config, client, stats)
	if err != nil {
		return fmt.Errorf("applicant creation failed: %w", err)
	}
	jobs, err := createJobs(ctx, config, client, stats)
	if err != nil {
		return fmt.Errorf("job creation failed: %w", err)
	}

	// Step 2: File one application per applicant against a random job.
	applications := fileApplications(ctx, config, client, applicantIDs, jobs, stats)

	// Step 3: Score every filed pair.
	scorePairs(ctx, config, client, applications, stats)

	// Step 4: Submit hiring decisions for a fraction of applications.
	submitDecisions(ctx, config, client, applications, stats)

	// Step 5: Let the async weight updates settle.
	logger.Get().Info(ctx, "waiting for decisions to be processed")
	time.Sleep(decisionSettleDelay)

	// Step 6: Retrieve rankings per job and verify ordering.
	if err := verifyRankings(ctx, config, client, jobs, stats); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}

	// Step 7: Run a global fairness audit.
	if err := runAudit(ctx, config, client); err != nil {
		logger.Get().Warn(ctx, "fairness audit failed", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "load run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

func createApplicants(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) ([]string, error) {
	applicants := generateApplicants(ctx, config)
	ids := make([]string, len(applicants))

	url := config.BaseURL + "/applicants"
	succeeded, failed := forEachConcurrent(ctx, config, "applicant", len(applicants), func(ctx context.Context, i int) error {
		var created Applicant
		if err := postAndDecode(ctx, client, url, applicants[i], &created, statusCreated); err != nil {
			return err
		}
		ids[i] = created.ID
		return nil
	})
	stats.ApplicantsCreated = int(succeeded)
	if succeeded == 0 {
		return nil, fmt.Errorf("no applicants created (%d failures)", failed)
	}

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			valid = append(valid, id)
		}
	}
	return valid, nil
}

func createJobs(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) ([]Job, error) {
	jobs := generateJobs(ctx, config)

	url := config.BaseURL + "/jobs"
	succeeded, failed := forEachConcurrent(ctx, config, "job", len(jobs), func(ctx context.Context, i int) error {
		var created Job
		if err := postAndDecode(ctx, client, url, jobs[i], &created, statusCreated); err != nil {
			return err
		}
		jobs[i].ID = created.ID
		return nil
	})
	stats.JobsCreated = int(succeeded)
	if succeeded == 0 {
		return nil, fmt.Errorf("no jobs created (%d failures)", failed)
	}

	valid := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j.ID != "" {
			valid = append(valid, j)
		}
	}
	return valid, nil
}

func fileApplications(ctx context.Context, config *Config, client *HTTPClient, applicantIDs []string, jobs []Job, stats *Stats) []Application {
	applications := make([]Application, len(applicantIDs))
	for i, applicantID := range applicantIDs {
		job := jobs[randomInt(len(jobs))]
		applications[i] = Application{
			ApplicantID: applicantID,
			JobID:       job.ID,
			RecruiterID: job.RecruiterID,
		}
	}

	url := config.BaseURL + "/applications"
	succeeded, _ := forEachConcurrent(ctx, config, "application", len(applications), func(ctx context.Context, i int) error {
		var created Application
		if err := postAndDecode(ctx, client, url, applications[i], &created, statusCreated); err != nil {
			return err
		}
		applications[i].ID = created.ID
		return nil
	})
	stats.ApplicationsFiled = int(succeeded)

	valid := make([]Application, 0, len(applications))
	for _, a := range applications {
		if a.ID != "" {
			valid = append(valid, a)
		}
	}
	return valid
}

func scorePairs(ctx context.Context, config *Config, client *HTTPClient, applications []Application, stats *Stats) {
	url := config.BaseURL + "/score"
	succeeded, _ := forEachConcurrent(ctx, config, "score", len(applications), func(ctx context.Context, i int) error {
		req := ScoreRequest{ApplicantID: applications[i].ApplicantID, JobID: applications[i].JobID}
		return postAndDecode(ctx, client, url, req, nil, statusCreated)
	})
	stats.ScoresComputed = int(succeeded)
}

// submitDecisions records a hire for roughly every third application and a
// rejection for the rest, plus one deliberate duplicate to exercise the
// idempotency path.
func submitDecisions(ctx context.Context, config *Config, client *HTTPClient, applications []Application, stats *Stats) {
	url := config.BaseURL + "/decision"

	var duplicates int64
	succeeded, failed := forEachConcurrent(ctx, config, "decision", len(applications), func(ctx context.Context, i int) error {
		decision := Decision{
			ApplicationID: applications[i].ID,
			Hired:         i%3 == 0,
		}
		var ack AckResponse
		if err := postAndDecode(ctx, client, url, decision, &ack, statusAccepted); err != nil {
			return err
		}
		if ack.Duplicate {
			atomic.AddInt64(&duplicates, 1)
		}
		return nil
	})

	// Resubmit the first decision; the engine should flag it.
	if len(applications) > 0 {
		var ack AckResponse
		decision := Decision{ApplicationID: applications[0].ID, Hired: true}
		if err := postAndDecode(ctx, client, url, decision, &ack, statusAccepted); err == nil && ack.Duplicate {
			atomic.AddInt64(&duplicates, 1)
		}
	}

	stats.DecisionsSubmitted = int(succeeded)
	stats.DecisionsDuplicate = int(atomic.LoadInt64(&duplicates))
	stats.DecisionsFailed = int(failed)
}

func runAudit(ctx context.Context, config *Config, client *HTTPClient) error {
	var audit AuditResponse
	payload := map[string]interface{}{"group_key": "group"}
	if err := postAndDecode(ctx, client, config.BaseURL+"/fairness/audit", payload, &audit, statusOK); err != nil {
		return err
	}

	logger.Get().Info(ctx, "fairness audit result",
		logger.String("status", audit.Status),
		logger.Float64("msd", audit.MSD),
		logger.Int("sampleSize", audit.SampleSize))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var decisionRate, pairsPerSecond float64

	if stats.ApplicationsFiled > 0 {
		decisionRate = float64(stats.DecisionsSubmitted) / float64(stats.ApplicationsFiled) * percentageMultiplier
	}
	if stats.Duration > 0 {
		pairsPerSecond = float64(stats.ScoresComputed) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("applicantsCreated", stats.ApplicantsCreated),
		logger.Int("jobsCreated", stats.JobsCreated),
		logger.Int("applicationsFiled", stats.ApplicationsFiled),
		logger.Int("scoresComputed", stats.ScoresComputed),
		logger.Int("decisionsSubmitted", stats.DecisionsSubmitted),
		logger.Int("decisionsDuplicate", stats.DecisionsDuplicate),
		logger.Int("decisionsFailed", stats.DecisionsFailed),
		logger.Int("rankingsRetrieved", stats.RankingsRetrieved),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("decisionRate", decisionRate),
		logger.Float64("pairsPerSecond", pairsPerSecond))
}
