package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/raidstats/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.SnapshotPath, convey.ShouldBeEmpty)
			convey.So(cfg.ReloadSchedule, convey.ShouldBeEmpty)
			convey.So(cfg.CacheSize, convey.ShouldEqual, 4096)
			convey.So(cfg.WarmupWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.WarmupQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.MaxLimit, convey.ShouldEqual, 100)
			convey.So(cfg.MinAverageSamples, convey.ShouldEqual, 20)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		cases := map[string]func(*config.Config){
			"unknown log level":         func(c *config.Config) { c.LogLevel = "loud" },
			"unknown log format":        func(c *config.Config) { c.LogFormat = "xml" },
			"empty addr":                func(c *config.Config) { c.Addr = "" },
			"schedule without snapshot": func(c *config.Config) { c.ReloadSchedule = "@every 1m" },
			"negative cache size":       func(c *config.Config) { c.CacheSize = -1 },
			"zero max limit":            func(c *config.Config) { c.MaxLimit = 0 },
			"warm-up beyond max limit":  func(c *config.Config) { c.WarmupLimit = c.MaxLimit + 1 },
			"zero average sample floor": func(c *config.Config) { c.MinAverageSamples = 0 },
			"negative rate limit":       func(c *config.Config) { c.RateLimitRPS = -1 },
			"zero warm-up queue":        func(c *config.Config) { c.WarmupQueueSize = 0 },
		}
		for name, mutate := range cases {
			convey.Convey("When it has "+name, func() {
				mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					err := cfg.Validate()
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When a schedule comes with a snapshot path", func() {
			cfg.SnapshotPath = "/data/master.json.gz"
			cfg.ReloadSchedule = "0 */10 * * * *"

			convey.Convey("Then it validates", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
