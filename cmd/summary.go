package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long:  `Display the number of rows stored in every table of the score database.`,
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	counts, err := e.db.Overview(cmd.Context())
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if jsonOut {
		return emit(counts, nil, nil)
	}

	total := 0
	for _, c := range counts {
		if c.Table == "participating" {
			total = c.Rows
		}
	}
	if total == 0 {
		fmt.Fprintln(os.Stdout, "No participations stored yet. Run 'arrowstats import <snapshot.yaml>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary (%s) ===\n\n", e.cfg.DBDriver)
	report.PrintOverview(os.Stdout, counts)
	return nil
}
