package fairness_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/talentrank/internal/domain/fairness"
	"github.com/okian/talentrank/internal/domain/scoring"
	"github.com/okian/talentrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type memoryHistory struct {
	metrics []fairness.Metric
}

func (h *memoryHistory) Append(ctx context.Context, m fairness.Metric) error {
	h.metrics = append(h.metrics, m)
	return nil
}

func samplesFor(group string, scores ...float64) []fairness.Sample {
	out := make([]fairness.Sample, 0, len(scores))
	for i, s := range scores {
		out = append(out, fairness.Sample{
			ApplicantID: group + string(rune('a'+i)),
			Group:       group,
			Record:      scoring.ScoreRecord{OverallScore: s, MatchScore: s},
		})
	}
	return out
}

func TestAudit(t *testing.T) {
	Convey("Given an auditor with default cutoffs", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()
		history := &memoryHistory{}
		auditor := fairness.NewAuditor(fairness.WithHistory(history))
		params := fairness.Params{GroupKey: "group", ScoreKey: fairness.ScoreKeyOverall, Threshold: 70}

		Convey("Two clearly separated groups should be flagged as biased", func() {
			samples := append(samplesFor("alpha", 90, 92, 88), samplesFor("beta", 60, 58, 62)...)

			m, err := auditor.Audit(ctx, "j1", samples, params)
			So(err, ShouldBeNil)
			So(m.MSD, ShouldAlmostEqual, 30)
			So(m.BiasMagnitude, ShouldAlmostEqual, 30)
			So(m.BiasDetected, ShouldBeTrue)
			So(m.Status, ShouldEqual, fairness.StatusBiased)
			So(m.SampleSize, ShouldEqual, 6)

			Convey("With the disadvantaged group selecting nobody at the threshold", func() {
				So(m.DIR, ShouldNotBeNil)
				So(*m.DIR, ShouldAlmostEqual, 0)
			})

			Convey("And the run appended to history", func() {
				So(len(history.metrics), ShouldEqual, 1)
				So(history.metrics[0].ID, ShouldEqual, m.ID)
			})
		})

		Convey("Balanced groups should be fair", func() {
			samples := append(samplesFor("alpha", 80, 82, 78), samplesFor("beta", 79, 81, 80)...)

			m, err := auditor.Audit(ctx, "j1", samples, params)
			So(err, ShouldBeNil)
			So(m.Status, ShouldEqual, fairness.StatusFair)
			So(m.BiasDetected, ShouldBeFalse)
			So(m.DIR, ShouldNotBeNil)
			So(*m.DIR, ShouldAlmostEqual, 1)
		})

		Convey("A gap just under the cutoff should be a warning", func() {
			samples := append(samplesFor("alpha", 84, 84, 84), samplesFor("beta", 75, 75, 75)...)

			m, err := auditor.Audit(ctx, "j1", samples, fairness.Params{ScoreKey: fairness.ScoreKeyOverall, Threshold: 50})
			So(err, ShouldBeNil)
			So(m.MSD, ShouldAlmostEqual, 9)
			So(m.BiasDetected, ShouldBeFalse)
			So(m.Status, ShouldEqual, fairness.StatusWarning)
		})

		Convey("DIR should be nil when no group selects anyone", func() {
			samples := append(samplesFor("alpha", 40, 42), samplesFor("beta", 38, 41)...)

			m, err := auditor.Audit(ctx, "j1", samples, fairness.Params{ScoreKey: fairness.ScoreKeyOverall, Threshold: 95})
			So(err, ShouldBeNil)
			So(m.DIR, ShouldBeNil)
		})

		Convey("A single applicant should be insufficient data", func() {
			_, err := auditor.Audit(ctx, "j1", samplesFor("alpha", 90), params)
			So(errors.Is(err, fairness.ErrInsufficientData), ShouldBeTrue)
		})

		Convey("Two groups that collapse to one after dropping untagged samples should be insufficient", func() {
			samples := append(samplesFor("alpha", 90, 88), fairness.Sample{ApplicantID: "x", Group: "", Record: scoring.ScoreRecord{OverallScore: 50}})

			_, err := auditor.Audit(ctx, "j1", samples, params)
			So(errors.Is(err, fairness.ErrInsufficientData), ShouldBeTrue)
		})

		Convey("An unknown score key should be rejected", func() {
			samples := append(samplesFor("alpha", 90, 92), samplesFor("beta", 60, 58)...)

			_, err := auditor.Audit(ctx, "j1", samples, fairness.Params{ScoreKey: "charisma"})
			So(errors.Is(err, fairness.ErrUnknownScoreKey), ShouldBeTrue)
		})

		Convey("Auditing a sub-score should use that field", func() {
			samples := append(samplesFor("alpha", 90, 92), samplesFor("beta", 60, 58)...)

			m, err := auditor.Audit(ctx, "j1", samples, fairness.Params{ScoreKey: fairness.ScoreKeyMatch, Threshold: 70})
			So(err, ShouldBeNil)
			So(m.ScoreKey, ShouldEqual, fairness.ScoreKeyMatch)
			So(m.MSD, ShouldAlmostEqual, 32)
		})
	})

	Convey("Given tightened DIR bounds", t, func() {
		So(logger.Init(), ShouldBeNil)
		auditor := fairness.NewAuditor(fairness.WithDIRBounds(0.95, 1.05), fairness.WithMSDCutoff(50))

		Convey("A modest selection-rate gap should now be biased", func() {
			samples := append(samplesFor("alpha", 90, 90, 90, 90), samplesFor("beta", 90, 90, 90, 40)...)

			m, err := auditor.Audit(context.Background(), "j1", samples, fairness.Params{ScoreKey: fairness.ScoreKeyOverall, Threshold: 70})
			So(err, ShouldBeNil)
			So(m.DIR, ShouldNotBeNil)
			So(*m.DIR, ShouldAlmostEqual, 0.75)
			So(m.Status, ShouldEqual, fairness.StatusBiased)
		})
	})
}
