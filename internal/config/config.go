// Package config loads arrowstats settings by layering defaults, an optional
// YAML file and ARROWSTATS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. ARROWSTATS_DB_DRIVER.
const EnvPrefix = "ARROWSTATS_"

// EnvConfigFile names a YAML config file when --config is not given.
const EnvConfigFile = EnvPrefix + "CONFIG"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// DBDriver selects the store backend.
	DBDriver string `koanf:"db_driver" validate:"oneof=sqlite postgres"`

	// DBDSN is a file path for sqlite or a connection URL for postgres.
	DBDSN string `koanf:"db_dsn" validate:"required"`

	// Addr is the listen address of `arrowstats serve`.
	Addr string `koanf:"addr" validate:"required"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		DBDriver: "sqlite",
		DBDSN:    filepath.Join(userHome(), ".arrowstats", "scores.db"),
		Addr:     ":9080",
	}
}

// Load builds a Config. Order of precedence (low -> high):
//  1. defaults (New)
//  2. YAML file at path, or at $ARROWSTATS_CONFIG when path is empty
//  3. env (prefix ARROWSTATS_)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// ARROWSTATS_DB_DRIVER -> db_driver; keys stay flat to match the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %q)", fe.Field(), fe.ActualTag(), fmt.Sprint(fe.Value())))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Level maps LogLevel to a slog level. Config validation guarantees a known value.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
