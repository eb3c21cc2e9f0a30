package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/report"
)

var (
	yearlyChampionship string
	yearlyRound        string
	yearlyParticipant  string
)

var yearlyCmd = &cobra.Command{
	Use:   "yearly",
	Short: "Average score per participant across a yearly championship",
	Long: `Average each participant's score for one round over the club competitions of
a yearly championship. Scores are divided by the round's maximum when it can be
derived; otherwise raw scores are averaged and a notice is printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		res := e.svc.YearlyNormalizedAverage(cmd.Context(), yearlyChampionship, yearlyRound, yearlyParticipant)
		return emit(res, res.Advisories, func() { report.PrintYearlyAverage(os.Stdout, res) })
	},
}

var capacityCmd = &cobra.Command{
	Use:   "capacity <round-id>",
	Short: "Maximum attainable score of a round",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		c, advs := e.svc.RoundCapacity(cmd.Context(), args[0])
		return emit(c, advs, func() { report.PrintCapacity(os.Stdout, c) })
	},
}

func init() {
	yearlyCmd.Flags().StringVar(&yearlyChampionship, "championship", "", "yearly club championship id")
	yearlyCmd.Flags().StringVar(&yearlyRound, "round", "", "round id")
	yearlyCmd.Flags().StringVar(&yearlyParticipant, "participant", "", "restrict to one participation id")
}
