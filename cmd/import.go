package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot.yaml>",
	Short: "Load a YAML snapshot of archery records into the database",
	Long: `Upsert accounts, archers, competitions, championships, rounds, categories,
event contexts and participations from a YAML snapshot. Category percentile rows
are appended. Running the same snapshot twice leaves entity tables unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	snap, err := storage.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.db.ImportSnapshot(cmd.Context(), snap); err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}
	e.log.Info("snapshot imported", "path", args[0],
		"participations", len(snap.Participations), "event_contexts", len(snap.EventContexts))
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d participations, %d event contexts, %d percentile rows.\n",
		len(snap.Participations), len(snap.EventContexts), len(snap.CategoryPercentiles))
	return nil
}
