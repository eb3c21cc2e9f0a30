package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the score database",
	Long: `Run an arbitrary SQL query against the score database and print results as a table.

Schema overview:
  account(account_id, fullname, role)
  archer(archer_id, account_id)
  club_competition(club_competition_id, name)
  yearly_club_championship(yearly_club_championship_id, name)
  round(round_id, name)
  category(category_id)
  event_context(event_context_id, club_competition_id, yearly_club_championship_id,
    round_id, range_id, end_order)
  participating(participating_id, archer_id, event_context_id, type, fullname,
    sum_score, score_1st_arrow, ..., score_6th_arrow)
  category_rating_percentile(id, archer_id, category_id, percentile)

Note: ids are TEXT. Use quotes: WHERE round_id = 'R1'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	cols, rows, err := e.db.QueryRaw(cmd.Context(), query)
	if err != nil {
		return err
	}
	report.PrintRaw(os.Stdout, cols, rows)
	return nil
}
