package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/aggregator"
	"github.com/pable/go-archery-stats/internal/config"
	"github.com/pable/go-archery-stats/internal/report"
	"github.com/pable/go-archery-stats/internal/storage"
)

var (
	configPath string
	dbPath     string
	dbDriver   string
	logLevel   string
	jsonOut    bool
)

var rootCmd = &cobra.Command{
	Use:   "arrowstats",
	Short: "Archery score aggregation tool",
	Long: `Roll archery participation records up into per-end, per-range and per-round
subtotals, round rankings, yearly championship averages and category percentiles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	pf.StringVar(&dbPath, "db", "", "SQLite file path or Postgres URL (overrides config)")
	pf.StringVar(&dbDriver, "driver", "", "store backend: sqlite or postgres (overrides config)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	pf.BoolVar(&jsonOut, "json", false, "print results as JSON instead of tables")

	rootCmd.AddCommand(endsCmd, rangesCmd, roundsCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(capacityCmd)
	rootCmd.AddCommand(yearlyCmd)
	rootCmd.AddCommand(percentileCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig layers explicitly set flags over the file and env config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBDSN = dbPath
	}
	if flags.Changed("driver") {
		cfg.DBDriver = dbDriver
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
}

// env is what every store-backed command needs.
type env struct {
	cfg *config.Config
	log *slog.Logger
	db  *storage.DB
	svc *aggregator.Service
}

// openEnv loads config and opens the store. The caller must call close.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)
	if cfg.DBDriver == string(storage.DriverSQLite) {
		if err := ensureDir(cfg.DBDSN); err != nil {
			return nil, err
		}
	}
	db, err := storage.Open(cmd.Context(), storage.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	log.Debug("storage opened", "driver", cfg.DBDriver)
	return &env{cfg: cfg, log: log, db: db, svc: aggregator.New(db, log)}, nil
}

// ensureDir creates the parent directory of a SQLite database file.
func ensureDir(dsn string) error {
	if dsn == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	return nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.log.Warn("close storage", "err", err)
	}
}

// emit prints v as JSON when --json is set, otherwise calls render. Advisories
// always go to stderr in table mode.
func emit(v any, advs []aggregator.Advisory, render func()) error {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	report.PrintAdvisories(os.Stderr, advs)
	render()
	return nil
}
