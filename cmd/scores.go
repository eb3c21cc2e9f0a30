package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/aggregator"
	"github.com/pable/go-archery-stats/internal/report"
)

// filterFlags binds the optional participation filters to a command.
type filterFlags struct {
	competition string
	round       string
	participant string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.competition, "competition", "", "club competition id")
	cmd.Flags().StringVar(&f.round, "round", "", "round id")
	cmd.Flags().StringVar(&f.participant, "participant", "", "participation id")
}

func (f *filterFlags) filter() aggregator.Filter {
	return aggregator.Filter{
		ClubCompetitionID: f.competition,
		RoundID:           f.round,
		ParticipationID:   f.participant,
	}
}

var endsFlags, rangesFlags, roundsFlags filterFlags

var endsCmd = &cobra.Command{
	Use:   "ends",
	Short: "Score subtotals per participant and end",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		res := e.svc.ScoresPerEnd(cmd.Context(), endsFlags.filter())
		return emit(res, res.Advisories, func() { report.PrintEndScores(os.Stdout, res.Rows) })
	},
}

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Score subtotals per participant and range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		res := e.svc.ScoresPerRange(cmd.Context(), rangesFlags.filter())
		return emit(res, res.Advisories, func() { report.PrintRangeScores(os.Stdout, res.Rows) })
	},
}

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Score totals per participant and round, highest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		res := e.svc.ScoresPerRound(cmd.Context(), roundsFlags.filter())
		return emit(res, res.Advisories, func() { report.PrintRoundScores(os.Stdout, res.Rows) })
	},
}

func init() {
	endsFlags.bind(endsCmd)
	rangesFlags.bind(rangesCmd)
	roundsFlags.bind(roundsCmd)
}
