package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/feblcsack/partyRock/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.DBDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.TopN, convey.ShouldEqual, 10)
				convey.So(cfg.StrictValidation, convey.ShouldBeFalse)
				convey.So(cfg.CORSOrigins, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PARTYROCK_ADDR", ":8080")
			_ = os.Setenv("PARTYROCK_STORE", "sql")
			_ = os.Setenv("PARTYROCK_DB_DRIVER", "postgres")
			_ = os.Setenv("PARTYROCK_DB_DSN", "postgres://db:5432/partyrock")
			_ = os.Setenv("PARTYROCK_STRICT_VALIDATION", "true")
			_ = os.Setenv("PARTYROCK_TOP_N", "5")
			_ = os.Setenv("PARTYROCK_CORS_ORIGINS", "http://a.test, http://b.test")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreSQL)
				convey.So(cfg.DBDriver, convey.ShouldEqual, "postgres")
				convey.So(cfg.DBDSN, convey.ShouldEqual, "postgres://db:5432/partyrock")
				convey.So(cfg.StrictValidation, convey.ShouldBeTrue)
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"http://a.test", "http://b.test"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
top_n: 3
report_dir: /tmp/reports
cors_origins:
  - http://school.test
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PARTYROCK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
				convey.So(cfg.ReportDir, convey.ShouldEqual, "/tmp/reports")
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"http://school.test"})
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
top_n: 3
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PARTYROCK_CONFIG", tmpFile)
			_ = os.Setenv("PARTYROCK_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile("addr: [unterminated")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PARTYROCK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PARTYROCK_CONFIG", "/non/existent/partyrock.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PARTYROCK_TOP_N", "many")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given a loader", t, func() {
		ctx := context.Background()

		cases := map[string]struct{ key, value string }{
			"an empty addr":      {"PARTYROCK_ADDR", " "},
			"an unknown store":   {"PARTYROCK_STORE", "redis"},
			"an unknown driver":  {"PARTYROCK_DB_DRIVER", "mysql"},
			"a zero top size":    {"PARTYROCK_TOP_N", "0"},
			"a negative ceiling": {"PARTYROCK_MAX_LEADERBOARD_LIMIT", "-1"},
		}
		for name, tc := range cases {
			convey.Convey("When loading with "+name, func() {
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should be rejected as invalid", func() {
					convey.So(cfg, convey.ShouldBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PARTYROCK_CONFIG",
		"PARTYROCK_ADDR",
		"PARTYROCK_LOG_LEVEL",
		"PARTYROCK_LOG_FORMAT",
		"PARTYROCK_STORE",
		"PARTYROCK_DB_DRIVER",
		"PARTYROCK_DB_DSN",
		"PARTYROCK_STRICT_VALIDATION",
		"PARTYROCK_TOP_N",
		"PARTYROCK_MAX_LEADERBOARD_LIMIT",
		"PARTYROCK_CORS_ORIGINS",
		"PARTYROCK_REPORT_DIR",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "partyrock-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
