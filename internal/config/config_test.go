package config_test

import (
	"context"
	"testing"

	"github.com/feblcsack/partyRock/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.TopN, convey.ShouldEqual, 10)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
