package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/fieldgeneral/dynasty/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataMode, convey.ShouldEqual, config.DataModeSynthetic)
				convey.So(cfg.MaxTieredPlayers, convey.ShouldEqual, 40)
				convey.So(cfg.TierSeed, convey.ShouldEqual, 13)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DYNASTY_ADDR", ":8080")
			_ = os.Setenv("DYNASTY_LEAGUE_ID", "987654")
			_ = os.Setenv("DYNASTY_DATA_MODE", "live")
			_ = os.Setenv("DYNASTY_MAX_TIERED_PLAYERS", "32")
			_ = os.Setenv("DYNASTY_TIER_SEED", "7")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LeagueID, convey.ShouldEqual, "987654")
				convey.So(cfg.DataMode, convey.ShouldEqual, config.DataModeLive)
				convey.So(cfg.MaxTieredPlayers, convey.ShouldEqual, 32)
				convey.So(cfg.TierSeed, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
league_id: "123456"
max_tiered_players: 30
tier_candidates_min: 4
tier_candidates_max: 8
trade_ceiling: 100
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DYNASTY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LeagueID, convey.ShouldEqual, "123456")
				convey.So(cfg.MaxTieredPlayers, convey.ShouldEqual, 30)
				convey.So(cfg.TierCandidates(), convey.ShouldResemble, []int{4, 5, 6, 7, 8})
				convey.So(cfg.TradeCeiling, convey.ShouldEqual, 100.0)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_tiered_players: 30
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DYNASTY_CONFIG", tmpFile)
			_ = os.Setenv("DYNASTY_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")      // Overridden by env
				convey.So(cfg.MaxTieredPlayers, convey.ShouldEqual, 30) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DYNASTY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DYNASTY_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("DYNASTY_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown data mode", func() {
			_ = os.Setenv("DYNASTY_DATA_MODE", "parquet")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When requesting live mode without a league id", func() {
			_ = os.Setenv("DYNASTY_DATA_MODE", "live")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "league_id")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When tier candidate bounds are inverted", func() {
			_ = os.Setenv("DYNASTY_TIER_CANDIDATES_MIN", "9")
			_ = os.Setenv("DYNASTY_TIER_CANDIDATES_MAX", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When trade losses fall outside (0, 1)", func() {
			_ = os.Setenv("DYNASTY_TRADE_STEEP_LOSS", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
build_workers: 2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DYNASTY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")       // From file
				convey.So(cfg.BuildWorkers, convey.ShouldEqual, 2)     // From file
				convey.So(cfg.MaxTieredPlayers, convey.ShouldEqual, 40) // From defaults
				convey.So(cfg.TradeCeiling, convey.ShouldEqual, 99.0)  // From defaults
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"DYNASTY_CONFIG",
		"DYNASTY_ADDR",
		"DYNASTY_LEAGUE_ID",
		"DYNASTY_DATA_MODE",
		"DYNASTY_MAX_TIERED_PLAYERS",
		"DYNASTY_TIER_SEED",
		"DYNASTY_TIER_CANDIDATES_MIN",
		"DYNASTY_TIER_CANDIDATES_MAX",
		"DYNASTY_TRADE_STEEP_LOSS",
		"DYNASTY_BUILD_WORKERS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "dynasty-config-*.yaml")
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
