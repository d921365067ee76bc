package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/talentrank/internal/config"
	"github.com/okian/talentrank/internal/domain/model"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.MaxTopK, convey.ShouldEqual, 50)
			convey.So(cfg.MaxRankingLimit, convey.ShouldEqual, 500)
			convey.So(cfg.LearningRate, convey.ShouldEqual, 0.1)
			convey.So(cfg.MaxUpdateRetries, convey.ShouldEqual, 5)
			convey.So(cfg.SaturationYears, convey.ShouldEqual, 10)
			convey.So(cfg.MSDCutoff, convey.ShouldEqual, 10)
			convey.So(cfg.DIRLow, convey.ShouldEqual, 0.8)
			convey.So(cfg.DIRHigh, convey.ShouldEqual, 1.2)
			convey.So(cfg.DefaultAuditThreshold, convey.ShouldEqual, 10)
		})
	})
}

func TestConfig_DegreeBands(t *testing.T) {
	convey.Convey("Given configured education bands", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When no bands are configured", func() {
			convey.So(cfg.DegreeBands(), convey.ShouldBeNil)
		})

		convey.Convey("When bands name known degree levels", func() {
			cfg.EducationBands = map[string]float64{
				"bachelor":  70,
				"master":    85,
				"doctorate": 95,
			}

			bands := cfg.DegreeBands()

			convey.Convey("Then they resolve to degree levels", func() {
				convey.So(bands, convey.ShouldResemble, map[model.DegreeLevel]float64{
					model.DegreeBachelor:  70,
					model.DegreeMaster:    85,
					model.DegreeDoctorate: 95,
				})
			})
		})

		convey.Convey("When bands name only unknown levels", func() {
			cfg.EducationBands = map[string]float64{"bootcamp": 50}

			convey.Convey("Then resolution yields nil", func() {
				convey.So(cfg.DegreeBands(), convey.ShouldBeNil)
			})
		})
	})
}
