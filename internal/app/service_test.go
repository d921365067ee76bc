package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/talentrank/internal/domain/fairness"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/recommend"
	"github.com/okian/talentrank/internal/domain/types"
	"github.com/okian/talentrank/pkg/logger"
)

func startService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	svc := New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func seedPair(ctx context.Context, t *testing.T, svc *Service, group string) (model.ApplicantProfile, model.JobProfile, model.Application) {
	t.Helper()
	applicant, err := svc.CreateApplicant(ctx, model.ApplicantProfile{
		Name:            "Dana Reyes",
		Skills:          model.NewSkillSet("Go", "SQL", "Kubernetes"),
		ExperienceYears: 6,
		Education:       []model.Education{{Degree: "BSc Computer Science", Year: 2017}},
		ResumeText:      "Built Go services with SQL backends on Kubernetes.",
		Group:           group,
	})
	if err != nil {
		t.Fatalf("create applicant: %v", err)
	}
	job, err := svc.CreateJob(ctx, model.JobProfile{
		RecruiterID:    "rec-1",
		Title:          "Backend Engineer",
		Description:    "Go services with SQL storage.",
		Requirements:   "go, sql, docker",
		RequiredSkills: model.NewSkillSet("go", "sql", "docker"),
		MinYears:       4,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	app, err := svc.CreateApplication(ctx, model.Application{
		ApplicantID: applicant.ID,
		JobID:       job.ID,
		RecruiterID: "rec-1",
	})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	return applicant, job, app
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t)
		ctx := context.Background()

		Convey("Start is idempotent", func() {
			So(svc.Start(ctx), ShouldBeNil)
		})

		Convey("profiles round-trip through the stores", func() {
			applicant, job, app := seedPair(ctx, t, svc, "")

			got, err := svc.GetApplicant(ctx, applicant.ID)
			So(err, ShouldBeNil)
			So(got.Name, ShouldEqual, "Dana Reyes")

			gotJob, err := svc.GetJob(ctx, job.ID)
			So(err, ShouldBeNil)
			So(gotJob.Title, ShouldEqual, "Backend Engineer")
			So(app.ID, ShouldNotBeEmpty)
		})
	})
}

func TestScoreAndExplain(t *testing.T) {
	Convey("Given a seeded service", t, func() {
		svc := startService(t)
		ctx := context.Background()
		applicant, job, _ := seedPair(ctx, t, svc, "")

		Convey("ScorePair stores a record under the resolved scope", func() {
			rec, err := svc.ScorePair(ctx, applicant.ID, job.ID, "")
			So(err, ShouldBeNil)
			So(rec.ApplicantID, ShouldEqual, applicant.ID)
			So(rec.JobID, ShouldEqual, job.ID)
			So(rec.OverallScore, ShouldBeGreaterThan, 0)
			So(rec.WeightVersion, ShouldEqual, 0)

			Convey("and Explain reconciles the stored record", func() {
				exp, err := svc.Explain(ctx, applicant.ID, job.ID)
				So(err, ShouldBeNil)
				So(exp.Reconciled, ShouldBeTrue)
				So(exp.OverallScore, ShouldEqual, rec.OverallScore)

				Convey("with an empty job falling back to the latest score", func() {
					latest, err := svc.Explain(ctx, applicant.ID, "")
					So(err, ShouldBeNil)
					So(latest.JobID, ShouldEqual, job.ID)
				})
			})
		})

		Convey("ScorePair rejects unknown profiles", func() {
			_, err := svc.ScorePair(ctx, "ghost", job.ID, "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFeedbackFlow(t *testing.T) {
	Convey("Given a scored application", t, func() {
		svc := startService(t)
		ctx := context.Background()
		applicant, job, app := seedPair(ctx, t, svc, "")
		scope := model.Scope{RecruiterID: "rec-1", JobID: job.ID}

		_, err := svc.ScorePair(ctx, applicant.ID, job.ID, "")
		So(err, ShouldBeNil)

		Convey("SubmitFeedback moves the scope's weights synchronously", func() {
			before, beforeVersion, err := svc.GetWeights(ctx, scope)
			So(err, ShouldBeNil)
			So(beforeVersion, ShouldEqual, 0)

			after, version, err := svc.SubmitFeedback(ctx, scope,
				[]types.FeedbackEntry{{ApplicationID: app.ID, Hired: true}}, 0.2)
			So(err, ShouldBeNil)
			So(version, ShouldEqual, 1)
			So(after, ShouldNotResemble, before)

			stored, storedVersion, err := svc.GetWeights(ctx, scope)
			So(err, ShouldBeNil)
			So(storedVersion, ShouldEqual, 1)
			So(stored, ShouldResemble, after)
		})

		Convey("SubmitFeedback rejects an unknown application", func() {
			_, _, err := svc.SubmitFeedback(ctx, scope,
				[]types.FeedbackEntry{{ApplicationID: "ghost", Hired: true}}, 0.2)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRecordDecision(t *testing.T) {
	Convey("Given a scored application", t, func() {
		svc := startService(t, WithWorkerCount(2))
		ctx := context.Background()
		applicant, job, app := seedPair(ctx, t, svc, "")
		scope := model.Scope{RecruiterID: "rec-1", JobID: job.ID}

		_, err := svc.ScorePair(ctx, applicant.ID, job.ID, "")
		So(err, ShouldBeNil)

		waitForVersion := func(want uint64) uint64 {
			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				_, version, err := svc.GetWeights(ctx, scope)
				if err == nil && version >= want {
					return version
				}
				time.Sleep(10 * time.Millisecond)
			}
			_, version, _ := svc.GetWeights(ctx, scope)
			return version
		}

		Convey("a decision is accepted and applied asynchronously", func() {
			duplicate, err := svc.RecordDecision(ctx, app.ID, true, "strong fit")
			So(err, ShouldBeNil)
			So(duplicate, ShouldBeFalse)
			So(waitForVersion(1), ShouldEqual, 1)

			Convey("resubmitting the same decision is a duplicate", func() {
				duplicate, err := svc.RecordDecision(ctx, app.ID, true, "")
				So(err, ShouldBeNil)
				So(duplicate, ShouldBeTrue)
			})

			Convey("reversing the decision is not a duplicate", func() {
				duplicate, err := svc.RecordDecision(ctx, app.ID, false, "changed our mind")
				So(err, ShouldBeNil)
				So(duplicate, ShouldBeFalse)
				So(waitForVersion(2), ShouldEqual, 2)
			})
		})

		Convey("an unknown application is rejected", func() {
			_, err := svc.RecordDecision(ctx, "ghost", true, "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestAuditFairness(t *testing.T) {
	Convey("Given applicants from two groups scored for one job", t, func() {
		svc := startService(t)
		ctx := context.Background()

		job, err := svc.CreateJob(ctx, model.JobProfile{
			RecruiterID:    "rec-1",
			Title:          "Backend Engineer",
			RequiredSkills: model.NewSkillSet("go", "sql"),
		})
		So(err, ShouldBeNil)

		seed := func(name, group string, skills ...string) {
			applicant, err := svc.CreateApplicant(ctx, model.ApplicantProfile{
				Name:            name,
				Skills:          model.NewSkillSet(skills...),
				ExperienceYears: 5,
				Group:           group,
			})
			So(err, ShouldBeNil)
			_, err = svc.ScorePair(ctx, applicant.ID, job.ID, "")
			So(err, ShouldBeNil)
		}
		seed("A1", "alpha", "go", "sql")
		seed("A2", "alpha", "go", "sql")
		seed("B1", "beta", "go")
		seed("B2", "beta", "go")

		Convey("the audit groups by demographic tag and records history", func() {
			metric, err := svc.AuditFairness(ctx, job.ID, fairness.Params{Threshold: 50})
			So(err, ShouldBeNil)
			So(metric.JobID, ShouldEqual, job.ID)
			So(metric.SampleSize, ShouldEqual, 4)
			So(len(metric.Groups), ShouldEqual, 2)

			history, err := svc.FairnessHistory(ctx, job.ID)
			So(err, ShouldBeNil)
			So(len(history), ShouldEqual, 1)
		})

		Convey("an unsupported group key is rejected", func() {
			_, err := svc.AuditFairness(ctx, job.ID, fairness.Params{GroupKey: "zodiac"})
			So(err, ShouldNotBeNil)
		})

		Convey("an empty job audits every latest score", func() {
			metric, err := svc.AuditFairness(ctx, "", fairness.Params{Threshold: 50})
			So(err, ShouldBeNil)
			So(metric.SampleSize, ShouldEqual, 4)
		})
	})
}

func TestRankAndRecommend(t *testing.T) {
	Convey("Given three applicants scored for one job", t, func() {
		svc := startService(t)
		ctx := context.Background()

		job, err := svc.CreateJob(ctx, model.JobProfile{
			RecruiterID:    "rec-1",
			Title:          "Backend Engineer",
			RequiredSkills: model.NewSkillSet("go", "sql", "docker"),
		})
		So(err, ShouldBeNil)

		ids := make([]string, 0, 3)
		for _, skills := range [][]string{
			{"go"},
			{"go", "sql"},
			{"go", "sql", "docker"},
		} {
			applicant, err := svc.CreateApplicant(ctx, model.ApplicantProfile{
				Name:            "Applicant",
				Skills:          model.NewSkillSet(skills...),
				ExperienceYears: 5,
			})
			So(err, ShouldBeNil)
			ids = append(ids, applicant.ID)
			_, err = svc.ScorePair(ctx, applicant.ID, job.ID, "")
			So(err, ShouldBeNil)
		}

		Convey("Rank orders candidates best first", func() {
			entries, err := svc.Rank(ctx, job.ID, 10)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 3)
			So(entries[0].ApplicantID, ShouldEqual, ids[2])
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[2].ApplicantID, ShouldEqual, ids[0])
		})

		Convey("Recommend finds the job for the strongest applicant", func() {
			recs, err := svc.Recommend(ctx, ids[2], recommend.JobsForApplicant, 5)
			So(err, ShouldBeNil)
			So(len(recs), ShouldEqual, 1)
			So(recs[0].EntityID, ShouldEqual, job.ID)
		})

		Convey("GetStats reflects the stored state", func() {
			stats := svc.GetStats(ctx)
			So(stats["applicants"], ShouldEqual, 3)
			So(stats["jobs"], ShouldEqual, 1)
			So(stats["score_records"], ShouldEqual, 3)
			So(stats["workers"], ShouldBeGreaterThan, 0)
		})
	})
}
