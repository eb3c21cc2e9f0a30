package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/report"
)

var (
	rankCompetition  string
	rankChampionship string
	rankRound        string
)

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Leaderboards for a round or a yearly championship",
}

var rankingRoundCmd = &cobra.Command{
	Use:   "round",
	Short: "Leaderboard of one round within one club competition",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		res := e.svc.RankingInRound(cmd.Context(), rankCompetition, rankRound)
		return emit(res, res.Advisories, func() { report.PrintStandings(os.Stdout, res.Rows) })
	},
}

var rankingYearlyCmd = &cobra.Command{
	Use:   "yearly",
	Short: "Leaderboard of one round across a yearly championship",
	Long: `Rank every participant of the round across all club competitions of the
yearly championship by their average score, normalized by the round's maximum
when it can be derived.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		res := e.svc.YearlyRanking(cmd.Context(), rankChampionship, rankRound)
		return emit(res, res.Advisories, func() { report.PrintYearlyAverage(os.Stdout, res) })
	},
}

func init() {
	rankingRoundCmd.Flags().StringVar(&rankCompetition, "competition", "", "club competition id")
	rankingYearlyCmd.Flags().StringVar(&rankChampionship, "championship", "", "yearly club championship id")
	rankingCmd.PersistentFlags().StringVar(&rankRound, "round", "", "round id")
	rankingCmd.AddCommand(rankingRoundCmd, rankingYearlyCmd)
}
