package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-archery-stats/internal/config"
)

var envKeys = []string{
	config.EnvConfigFile,
	config.EnvPrefix + "LOG_LEVEL",
	config.EnvPrefix + "DB_DRIVER",
	config.EnvPrefix + "DB_DSN",
	config.EnvPrefix + "ADDR",
}

func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "arrowstats.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearEnv(t)

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then the SQLite defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DBDSN, convey.ShouldEndWith, filepath.Join(".arrowstats", "scores.db"))
				convey.So(cfg.Level(), convey.ShouldEqual, slog.LevelInfo)
			})
		})

		convey.Convey("When a YAML file is given", func() {
			path := writeConfig(t, "db_driver: postgres\ndb_dsn: postgres://localhost/archery\nlog_level: debug\n")
			cfg, err := config.Load(path)

			convey.Convey("Then its values override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBDriver, convey.ShouldEqual, "postgres")
				convey.So(cfg.DBDSN, convey.ShouldEqual, "postgres://localhost/archery")
				convey.So(cfg.Level(), convey.ShouldEqual, slog.LevelDebug)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			})
		})

		convey.Convey("When the file comes from the environment and env vars are set", func() {
			path := writeConfig(t, "addr: \":7000\"\nlog_level: warn\n")
			t.Setenv(config.EnvConfigFile, path)
			t.Setenv(config.EnvPrefix+"LOG_LEVEL", "error")
			cfg, err := config.Load("")

			convey.Convey("Then env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "error")
			})
		})

		convey.Convey("When a value fails validation", func() {
			t.Setenv(config.EnvPrefix+"DB_DRIVER", "oracle")
			_, err := config.Load("")

			convey.Convey("Then loading fails naming the field", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "DBDriver")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
