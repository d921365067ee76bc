package learning_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/talentrank/internal/domain/learning"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/internal/domain/scoring"
	"github.com/okian/talentrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeStore scripts compare-and-swap outcomes for retry tests.
type fakeStore struct {
	vector   model.WeightVector
	version  uint64
	failures int // number of CAS calls to reject before accepting
	casCalls int
}

func (f *fakeStore) Get(ctx context.Context, scope model.Scope) (model.WeightVector, uint64, error) {
	return f.vector, f.version, nil
}

func (f *fakeStore) CompareAndSwap(ctx context.Context, scope model.Scope, expected uint64, next model.WeightVector) (bool, error) {
	f.casCalls++
	if f.failures > 0 {
		f.failures--
		f.version++ // simulate a concurrent writer winning
		return false, nil
	}
	if expected != f.version {
		return false, nil
	}
	f.vector = next
	f.version++
	return true, nil
}

func hiredScores() learning.FactorScores {
	return learning.FactorScores{Skill: 90, Experience: 40, Education: 30, Match: 60, Overall: 55}
}

func TestApplyFeedback(t *testing.T) {
	Convey("Given the default weight vector", t, func() {
		w := model.DefaultWeights()

		Convey("A hire with a modest predicted score should grow weights of strong factors", func() {
			next := learning.ApplyFeedback(w, hiredScores(), model.OutcomeHired, 0.1)
			So(next.Skill, ShouldBeGreaterThan, next.Education)
			So(next.Skill, ShouldBeGreaterThan, w.Skill)
		})

		Convey("A rejection of a highly-scored applicant should shrink strong factors", func() {
			scores := learning.FactorScores{Skill: 95, Experience: 90, Education: 20, Match: 85, Overall: 88}
			next := learning.ApplyFeedback(w, scores, model.OutcomeRejected, 0.1)
			So(next.Skill, ShouldBeLessThan, w.Skill)
			So(next.Education, ShouldBeGreaterThan, w.Education)
		})

		Convey("The result should always be non-negative and normalized", func() {
			for _, outcome := range []model.Outcome{model.OutcomeHired, model.OutcomeRejected} {
				for _, lr := range []float64{0.01, 0.1, 0.5, 1.0} {
					next := learning.ApplyFeedback(w, hiredScores(), outcome, lr)
					So(next.Skill, ShouldBeGreaterThanOrEqualTo, 0)
					So(next.Experience, ShouldBeGreaterThanOrEqualTo, 0)
					So(next.Education, ShouldBeGreaterThanOrEqualTo, 0)
					So(next.Match, ShouldBeGreaterThanOrEqualTo, 0)
					So(math.Abs(next.Sum()-1), ShouldBeLessThan, 1e-9)
				}
			}
		})

		Convey("A perfectly predicted outcome should leave weights unchanged", func() {
			scores := learning.FactorScores{Skill: 80, Experience: 80, Education: 80, Match: 80, Overall: 100}
			next := learning.ApplyFeedback(w, scores, model.OutcomeHired, 0.1)
			So(math.Abs(next.Skill-w.Skill), ShouldBeLessThan, 1e-9)
		})
	})
}

func TestLearnerSubmit(t *testing.T) {
	Convey("Given a learner over a scripted store", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()
		scope := model.Scope{RecruiterID: "r1", JobID: "j1"}

		Convey("An uncontested submission should succeed first try", func() {
			store := &fakeStore{vector: model.DefaultWeights(), version: 7}
			l := learning.NewLearner(store, learning.WithMaxRetries(5))

			next, version, err := l.Submit(ctx, scope, hiredScores(), model.OutcomeHired, 0.1)
			So(err, ShouldBeNil)
			So(version, ShouldEqual, 8)
			So(store.casCalls, ShouldEqual, 1)
			So(math.Abs(next.Sum()-1), ShouldBeLessThan, 1e-9)
		})

		Convey("A contested submission should retry against fresh versions and win", func() {
			store := &fakeStore{vector: model.DefaultWeights(), version: 1, failures: 3}
			l := learning.NewLearner(store, learning.WithMaxRetries(5))

			_, _, err := l.Submit(ctx, scope, hiredScores(), model.OutcomeHired, 0.1)
			So(err, ShouldBeNil)
			So(store.casCalls, ShouldEqual, 4)
		})

		Convey("Exhausted retries should surface ErrUpdateConflict", func() {
			store := &fakeStore{vector: model.DefaultWeights(), version: 1, failures: 100}
			l := learning.NewLearner(store, learning.WithMaxRetries(3))

			_, _, err := l.Submit(ctx, scope, hiredScores(), model.OutcomeHired, 0.1)
			So(errors.Is(err, learning.ErrUpdateConflict), ShouldBeTrue)
			So(store.casCalls, ShouldEqual, 3)
		})

		Convey("An unknown outcome should be rejected as invalid input", func() {
			store := &fakeStore{vector: model.DefaultWeights()}
			l := learning.NewLearner(store)

			_, _, err := l.Submit(ctx, scope, hiredScores(), model.Outcome("undecided"), 0.1)
			So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("A non-positive learning rate should fall back to the default", func() {
			store := &fakeStore{vector: model.DefaultWeights(), version: 0}
			l := learning.NewLearner(store, learning.WithLearningRate(0.2))

			next, _, err := l.Submit(ctx, scope, hiredScores(), model.OutcomeHired, 0)
			So(err, ShouldBeNil)
			So(next, ShouldResemble, learning.ApplyFeedback(model.DefaultWeights(), hiredScores(), model.OutcomeHired, 0.2))
		})
	})
}
