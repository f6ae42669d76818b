package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/mcoot/scoreboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 8080)
				convey.So(cfg.TickInterval, convey.ShouldEqual, 100*time.Millisecond)
				convey.So(cfg.AllowBlankNames, convey.ShouldBeFalse)
				convey.So(len(cfg.SeedPlayers), convey.ShouldEqual, 3)
				convey.So(cfg.SeedPlayers[0].Name, convey.ShouldEqual, "Jim Hoskins")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCOREBOARD_PORT", "9090")
			_ = os.Setenv("SCOREBOARD_TICK_INTERVAL", "250ms")
			_ = os.Setenv("SCOREBOARD_ALLOW_BLANK_NAMES", "true")
			_ = os.Setenv("SCOREBOARD_LOG_LEVEL", "debug")

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 9090)
				convey.So(cfg.TickInterval, convey.ShouldEqual, 250*time.Millisecond)
				convey.So(cfg.AllowBlankNames, convey.ShouldBeTrue)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
port: 7070
board_idle_timeout: 10m
seed_players:
  - name: Solo
    score: 5
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCOREBOARD_CONFIG", tmpFile)

			cfg, err := config.Load()

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 7070)
				convey.So(cfg.BoardIdleTimeout, convey.ShouldEqual, 10*time.Minute)
				convey.So(cfg.SeedPlayers, convey.ShouldResemble, []config.SeedPlayer{{Name: "Solo", Score: 5}})
				convey.So(cfg.TickInterval, convey.ShouldEqual, 100*time.Millisecond)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("port: 7070\nlog_level: warn\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCOREBOARD_CONFIG", tmpFile)
			_ = os.Setenv("SCOREBOARD_PORT", "6060")

			cfg, err := config.Load()

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 6060)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCOREBOARD_CONFIG", tmpFile)

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SCOREBOARD_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load()

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid port", func() {
			_ = os.Setenv("SCOREBOARD_PORT", "0")

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "port")
			})
		})

		convey.Convey("When loading config with an unknown log level", func() {
			_ = os.Setenv("SCOREBOARD_LOG_LEVEL", "chatty")

			_, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "scoreboard-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = tmpFile.Close() }()
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"SCOREBOARD_CONFIG",
		"SCOREBOARD_PORT",
		"SCOREBOARD_HOST",
		"SCOREBOARD_LOG_LEVEL",
		"SCOREBOARD_TICK_INTERVAL",
		"SCOREBOARD_BOARD_IDLE_TIMEOUT",
		"SCOREBOARD_JANITOR_INTERVAL",
		"SCOREBOARD_ALLOW_BLANK_NAMES",
		"SCOREBOARD_STATIC_DIR",
	} {
		_ = os.Unsetenv(key)
	}
}
