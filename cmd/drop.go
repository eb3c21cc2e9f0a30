package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/storage"
)

var dropForce bool

// dropCmd deletes the SQLite score database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the local score database",
	Long: `Permanently delete the SQLite score database and its WAL files.

Every imported account, archer, event context, participation and category
percentile row is lost. Rebuild with 'arrowstats import <snapshot.yaml>'.
Without --force, drop only reports what would be deleted.
Postgres databases are never dropped from here.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "delete without asking")
}

func runDrop(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DBDriver != string(storage.DriverSQLite) {
		return fmt.Errorf("drop only supports the sqlite driver, got %q", cfg.DBDriver)
	}
	path := cfg.DBDSN
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "No score database at %s, nothing to drop.\n", path)
		return nil
	}

	if !dropForce {
		fmt.Fprintf(out, "Would delete %s (%s).\n", path, describeStore(cmd.Context(), path))
		fmt.Fprintln(out, "Re-run with --force to delete it.")
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path+suffix, err)
		}
	}
	fmt.Fprintf(out, "Deleted %s. Run 'arrowstats import <snapshot.yaml>' to rebuild.\n", path)
	return nil
}

// describeStore summarizes the rows a drop would lose.
func describeStore(ctx context.Context, path string) string {
	db, err := storage.Open(ctx, storage.DriverSQLite, path)
	if err != nil {
		return "contents unreadable"
	}
	defer db.Close()

	counts, err := db.Overview(ctx)
	if err != nil {
		return "contents unreadable"
	}
	var parts []string
	for _, c := range counts {
		switch c.Table {
		case "participating":
			parts = append(parts, fmt.Sprintf("%d participations", c.Rows))
		case "event_context":
			parts = append(parts, fmt.Sprintf("%d event contexts", c.Rows))
		case "category_rating_percentile":
			parts = append(parts, fmt.Sprintf("%d percentile rows", c.Rows))
		}
	}
	return strings.Join(parts, ", ")
}
