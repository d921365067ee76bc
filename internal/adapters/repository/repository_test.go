package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/talentrank/internal/adapters/repository"
	"github.com/okian/talentrank/internal/domain/fairness"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWeightStore(t *testing.T) {
	Convey("Given an empty weight store", t, func() {
		ctx := context.Background()
		store := repository.NewWeightStore()
		scope := model.Scope{RecruiterID: "r1", JobID: "j1"}

		Convey("An unset scope should resolve to the default at version 0", func() {
			w, version, err := store.Get(ctx, scope)
			So(err, ShouldBeNil)
			So(version, ShouldEqual, 0)
			So(w, ShouldResemble, model.DefaultWeights())
		})

		Convey("A swap against version 0 should create the specialization", func() {
			next := model.WeightVector{Skill: 0.4, Experience: 0.3, Education: 0.1, Match: 0.2}

			ok, err := store.CompareAndSwap(ctx, scope, 0, next)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			Convey("And Get should round-trip the new vector at version 1", func() {
				w, version, err := store.Get(ctx, scope)
				So(err, ShouldBeNil)
				So(version, ShouldEqual, 1)
				So(w, ShouldResemble, next)
			})

			Convey("While a sibling scope still resolves to the default", func() {
				w, version, err := store.Get(ctx, model.Scope{RecruiterID: "r1", JobID: "j2"})
				So(err, ShouldBeNil)
				So(version, ShouldEqual, 0)
				So(w, ShouldResemble, model.DefaultWeights())
			})
		})

		Convey("Resolution should fall back from job scope to recruiter scope to global", func() {
			recruiterWide := model.WeightVector{Skill: 0.7, Experience: 0.1, Education: 0.1, Match: 0.1}
			global := model.WeightVector{Skill: 0.1, Experience: 0.1, Education: 0.1, Match: 0.7}

			ok, err := store.CompareAndSwap(ctx, model.Scope{}, 0, global)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			w, version, err := store.Get(ctx, scope)
			So(err, ShouldBeNil)
			So(version, ShouldEqual, 0) // the requested scope's own counter
			So(w, ShouldResemble, global)

			ok, err = store.CompareAndSwap(ctx, model.Scope{RecruiterID: "r1"}, 0, recruiterWide)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			w, _, err = store.Get(ctx, scope)
			So(err, ShouldBeNil)
			So(w, ShouldResemble, recruiterWide)
		})

		Convey("A stale swap should fail without mutating", func() {
			next := model.WeightVector{Skill: 0.4, Experience: 0.3, Education: 0.1, Match: 0.2}
			ok, err := store.CompareAndSwap(ctx, scope, 0, next)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = store.CompareAndSwap(ctx, scope, 0, model.DefaultWeights())
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			w, version, err := store.Get(ctx, scope)
			So(err, ShouldBeNil)
			So(version, ShouldEqual, 1)
			So(w, ShouldResemble, next)
		})

		Convey("Exactly one of two racing swaps against the same version should win", func() {
			a := model.WeightVector{Skill: 0.4, Experience: 0.2, Education: 0.2, Match: 0.2}
			b := model.WeightVector{Skill: 0.2, Experience: 0.4, Education: 0.2, Match: 0.2}

			type result struct {
				ok  bool
				err error
			}
			var wg sync.WaitGroup
			results := make(chan result, 2)
			for _, next := range []model.WeightVector{a, b} {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := store.CompareAndSwap(ctx, scope, 0, next)
					results <- result{ok: ok, err: err}
				}()
			}
			wg.Wait()
			close(results)

			wins := 0
			for r := range results {
				So(r.err, ShouldBeNil)
				if r.ok {
					wins++
				}
			}
			So(wins, ShouldEqual, 1)

			_, version, err := store.Get(ctx, scope)
			So(err, ShouldBeNil)
			So(version, ShouldEqual, 1)
		})

		Convey("Stored vectors should be normalized on write", func() {
			ok, err := store.CompareAndSwap(ctx, scope, 0, model.WeightVector{Skill: 4, Experience: 3, Education: 1, Match: 2})
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			w, _, err := store.Get(ctx, scope)
			So(err, ShouldBeNil)
			So(w.Sum(), ShouldAlmostEqual, 1)
			So(w.Skill, ShouldAlmostEqual, 0.4)
		})
	})
}

func scoreRec(applicantID, jobID string, overall, match float64, at time.Time) scoring.ScoreRecord {
	return scoring.ScoreRecord{
		ApplicantID:  applicantID,
		JobID:        jobID,
		OverallScore: overall,
		MatchScore:   match,
		CreatedAt:    at,
	}
}

func TestScoreStore(t *testing.T) {
	Convey("Given a score store", t, func() {
		ctx := context.Background()
		store := repository.NewScoreStore()
		now := time.Now().UTC()

		Convey("Latest should return the appended record", func() {
			So(store.Append(ctx, scoreRec("a1", "j1", 80, 70, now)), ShouldBeNil)

			rec, err := store.Latest(ctx, "a1", "j1")
			So(err, ShouldBeNil)
			So(rec.OverallScore, ShouldEqual, 80)
		})

		Convey("An unknown pair should be not found", func() {
			_, err := store.Latest(ctx, "ghost", "j1")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("LatestForJob should come back in ranking order", func() {
			So(store.Append(ctx, scoreRec("a1", "j1", 70, 50, now)), ShouldBeNil)
			So(store.Append(ctx, scoreRec("a2", "j1", 90, 50, now)), ShouldBeNil)
			So(store.Append(ctx, scoreRec("a4", "j1", 80, 60, now)), ShouldBeNil)
			So(store.Append(ctx, scoreRec("a3", "j1", 80, 60, now)), ShouldBeNil)
			So(store.Append(ctx, scoreRec("a5", "j2", 99, 99, now)), ShouldBeNil)

			recs, err := store.LatestForJob(ctx, "j1")
			So(err, ShouldBeNil)
			So(len(recs), ShouldEqual, 4)
			So(recs[0].ApplicantID, ShouldEqual, "a2")
			So(recs[1].ApplicantID, ShouldEqual, "a3") // tie with a4 breaks on id
			So(recs[2].ApplicantID, ShouldEqual, "a4")
			So(recs[3].ApplicantID, ShouldEqual, "a1")
		})

		Convey("A recompute should supersede the pair's previous record", func() {
			So(store.Append(ctx, scoreRec("a1", "j1", 60, 50, now)), ShouldBeNil)
			So(store.Append(ctx, scoreRec("a2", "j1", 70, 50, now)), ShouldBeNil)
			So(store.Append(ctx, scoreRec("a1", "j1", 95, 80, now.Add(time.Second))), ShouldBeNil)

			recs, err := store.LatestForJob(ctx, "j1")
			So(err, ShouldBeNil)
			So(len(recs), ShouldEqual, 2)
			So(recs[0].ApplicantID, ShouldEqual, "a1")
			So(recs[0].OverallScore, ShouldEqual, 95)

			Convey("While the history keeps every record", func() {
				hist, err := store.History(ctx, "a1", "j1")
				So(err, ShouldBeNil)
				So(len(hist), ShouldEqual, 2)
				So(hist[0].OverallScore, ShouldEqual, 60)
				So(hist[1].OverallScore, ShouldEqual, 95)
				So(store.Count(ctx), ShouldEqual, 3)
			})
		})

		Convey("TopForJob should respect the limit", func() {
			for _, r := range []scoring.ScoreRecord{
				scoreRec("a1", "j1", 70, 0, now),
				scoreRec("a2", "j1", 90, 0, now),
				scoreRec("a3", "j1", 80, 0, now),
			} {
				So(store.Append(ctx, r), ShouldBeNil)
			}

			recs, err := store.TopForJob(ctx, "j1", 2)
			So(err, ShouldBeNil)
			So(len(recs), ShouldEqual, 2)
			So(recs[0].ApplicantID, ShouldEqual, "a2")
			So(recs[1].ApplicantID, ShouldEqual, "a3")
		})

		Convey("LatestForApplicant should pick the most recent across jobs", func() {
			So(store.Append(ctx, scoreRec("a1", "j1", 70, 0, now)), ShouldBeNil)
			So(store.Append(ctx, scoreRec("a1", "j2", 85, 0, now.Add(time.Minute))), ShouldBeNil)

			rec, err := store.LatestForApplicant(ctx, "a1")
			So(err, ShouldBeNil)
			So(rec.JobID, ShouldEqual, "j2")
		})

		Convey("A job with no scores should read as empty", func() {
			recs, err := store.LatestForJob(ctx, "empty")
			So(err, ShouldBeNil)
			So(len(recs), ShouldEqual, 0)
		})
	})
}

func TestProfileStore(t *testing.T) {
	Convey("Given a profile store", t, func() {
		ctx := context.Background()
		store := repository.NewProfileStore()

		Convey("Applicants should round-trip and get ids assigned", func() {
			p, err := store.PutApplicant(ctx, model.ApplicantProfile{Name: "Dana"})
			So(err, ShouldBeNil)
			So(p.ID, ShouldNotBeEmpty)

			got, err := store.Applicant(ctx, p.ID)
			So(err, ShouldBeNil)
			So(got.Name, ShouldEqual, "Dana")
		})

		Convey("Unknown lookups should be not found", func() {
			_, err := store.Applicant(ctx, "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			_, err = store.Job(ctx, "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			_, err = store.Application(ctx, "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("An application must reference stored profiles", func() {
			p, err := store.PutApplicant(ctx, model.ApplicantProfile{Name: "Dana"})
			So(err, ShouldBeNil)

			_, err = store.PutApplication(ctx, model.Application{ApplicantID: p.ID, JobID: "ghost"})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			j, err := store.PutJob(ctx, model.JobProfile{Title: "Backend Engineer"})
			So(err, ShouldBeNil)

			a, err := store.PutApplication(ctx, model.Application{ApplicantID: p.ID, JobID: j.ID, RecruiterID: "r1"})
			So(err, ShouldBeNil)

			got, err := store.Application(ctx, a.ID)
			So(err, ShouldBeNil)
			So(got.JobID, ShouldEqual, j.ID)

			applicants, jobs, applications := store.Counts(ctx)
			So(applicants, ShouldEqual, 1)
			So(jobs, ShouldEqual, 1)
			So(applications, ShouldEqual, 1)
		})
	})
}

func TestAppendOnlyLogs(t *testing.T) {
	Convey("Given the feedback log", t, func() {
		ctx := context.Background()
		log := repository.NewFeedbackLog()

		Convey("Entries should append in order and filter by job", func() {
			_, err := log.Append(ctx, model.FeedbackRecord{JobID: "j1", Outcome: model.OutcomeHired})
			So(err, ShouldBeNil)
			_, err = log.Append(ctx, model.FeedbackRecord{JobID: "j2", Outcome: model.OutcomeRejected})
			So(err, ShouldBeNil)

			all, err := log.ForJob(ctx, "")
			So(err, ShouldBeNil)
			So(len(all), ShouldEqual, 2)
			So(all[0].ID, ShouldNotBeEmpty)

			j1, err := log.ForJob(ctx, "j1")
			So(err, ShouldBeNil)
			So(len(j1), ShouldEqual, 1)
			So(log.Count(ctx), ShouldEqual, 2)
		})
	})

	Convey("Given the audit history", t, func() {
		ctx := context.Background()
		hist := repository.NewAuditHistory()

		Convey("Runs should accumulate per job", func() {
			So(hist.Append(ctx, fairness.Metric{ID: "m1", JobID: "j1", Status: fairness.StatusFair}), ShouldBeNil)
			So(hist.Append(ctx, fairness.Metric{ID: "m2", JobID: "j1", Status: fairness.StatusBiased}), ShouldBeNil)
			So(hist.Append(ctx, fairness.Metric{ID: "m3", Status: fairness.StatusFair}), ShouldBeNil)

			j1, err := hist.ForJob(ctx, "j1")
			So(err, ShouldBeNil)
			So(len(j1), ShouldEqual, 2)
			So(j1[0].ID, ShouldEqual, "m1")

			all, err := hist.ForJob(ctx, "")
			So(err, ShouldBeNil)
			So(len(all), ShouldEqual, 3)
		})
	})
}
