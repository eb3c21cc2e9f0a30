package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-archery-stats/internal/aggregator"
	"github.com/pable/go-archery-stats/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	ctx := cmd.Context()

	cGreeting.Println("arrowstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("arrowstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "ends", "ranges", "rounds":
			f, err := parseShellFilter(args)
			if err != nil {
				cError.Fprintln(os.Stderr, err)
				continue
			}
			shellBreakdown(ctx, e.svc, name, f)
		case "ranking":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: ranking <competition> <round>")
				continue
			}
			res := e.svc.RankingInRound(ctx, args[0], args[1])
			shellAdvisories(res.Advisories)
			report.PrintStandings(os.Stdout, res.Rows)
		case "yearly":
			if len(args) < 2 || len(args) > 3 {
				cError.Fprintln(os.Stderr, "usage: yearly <championship> <round> [participant]")
				continue
			}
			var participant string
			if len(args) == 3 {
				participant = args[2]
			}
			res := e.svc.YearlyNormalizedAverage(ctx, args[0], args[1], participant)
			shellAdvisories(res.Advisories)
			report.PrintYearlyAverage(os.Stdout, res)
		case "capacity":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: capacity <round>")
				continue
			}
			c, advs := e.svc.RoundCapacity(ctx, args[0])
			shellAdvisories(advs)
			report.PrintCapacity(os.Stdout, c)
		case "percentile":
			if len(args) < 1 || len(args) > 2 {
				cError.Fprintln(os.Stderr, "usage: percentile <category> [archer]")
				continue
			}
			var archer string
			if len(args) == 2 {
				archer = args[1]
			}
			res := e.svc.CategoryPercentile(ctx, args[0], archer)
			shellAdvisories(res.Advisories)
			report.PrintCategoryStanding(os.Stdout, res, archer)
		case "summary":
			counts, err := e.db.Overview(ctx)
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			report.PrintOverview(os.Stdout, counts)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"ends [competition=ID] [round=ID] [participant=ID]", "subtotals per end"},
		{"ranges [competition=ID] [round=ID] [participant=ID]", "subtotals per range"},
		{"rounds [competition=ID] [round=ID] [participant=ID]", "totals per round, highest first"},
		{"ranking <competition> <round>", "leaderboard of one round"},
		{"yearly <championship> <round> [participant]", "yearly championship averages"},
		{"capacity <round>", "maximum attainable score of a round"},
		{"percentile <category> [archer]", "category distribution and percentile"},
		{"summary", "row counts per table"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-52s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// parseShellFilter reads key=value filter tokens.
func parseShellFilter(args []string) (aggregator.Filter, error) {
	var f aggregator.Filter
	for _, a := range args {
		key, val, ok := strings.Cut(a, "=")
		if !ok {
			return f, fmt.Errorf("expected key=value, got %q", a)
		}
		switch key {
		case "competition":
			f.ClubCompetitionID = val
		case "round":
			f.RoundID = val
		case "participant":
			f.ParticipationID = val
		default:
			return f, fmt.Errorf("unknown filter %q (competition, round, participant)", key)
		}
	}
	return f, nil
}

func shellBreakdown(ctx context.Context, svc *aggregator.Service, name string, f aggregator.Filter) {
	switch name {
	case "ends":
		res := svc.ScoresPerEnd(ctx, f)
		shellAdvisories(res.Advisories)
		report.PrintEndScores(os.Stdout, res.Rows)
	case "ranges":
		res := svc.ScoresPerRange(ctx, f)
		shellAdvisories(res.Advisories)
		report.PrintRangeScores(os.Stdout, res.Rows)
	case "rounds":
		res := svc.ScoresPerRound(ctx, f)
		shellAdvisories(res.Advisories)
		report.PrintRoundScores(os.Stdout, res.Rows)
	}
}

func shellAdvisories(advs []aggregator.Advisory) {
	for _, a := range advs {
		c := cMuted
		if a.Kind == aggregator.StoreFailure {
			c = cWarn
		}
		c.Fprintln(os.Stderr, a.Message)
	}
}
