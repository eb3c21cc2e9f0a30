package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/report"
)

var percentileArcher string

var percentileCmd = &cobra.Command{
	Use:   "percentile <category-id>",
	Short: "Category score distribution and an archer's percentile in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		res := e.svc.CategoryPercentile(cmd.Context(), args[0], percentileArcher)
		return emit(res, res.Advisories, func() {
			report.PrintCategoryStanding(os.Stdout, res, percentileArcher)
		})
	},
}

func init() {
	percentileCmd.Flags().StringVar(&percentileArcher, "archer", "", "archer id to locate in the distribution")
}
