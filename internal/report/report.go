package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-archery-stats/internal/aggregator"
	"github.com/pable/go-archery-stats/internal/model"
	"github.com/pable/go-archery-stats/internal/storage"
)

// newTable returns a table with right-aligned cells and centered headers.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintAdvisories writes one line per advisory, prefixed by its severity.
func PrintAdvisories(w io.Writer, advs []aggregator.Advisory) {
	for _, a := range advs {
		prefix := "info"
		if a.Kind == aggregator.StoreFailure {
			prefix = "warning"
		}
		fmt.Fprintf(w, "%s: %s\n", prefix, a.Message)
	}
}

// printEmpty reports a result with no rows. It returns true if it printed.
func printEmpty(w io.Writer, n int) bool {
	if n > 0 {
		return false
	}
	fmt.Fprintln(w, "(no rows)")
	return true
}

// PrintEndScores prints per-end subtotals.
func PrintEndScores(w io.Writer, rows []model.EndScore) {
	if printEmpty(w, len(rows)) {
		return
	}
	table := newTable(w)
	table.Header("PARTICIPANT", "END", "SUM")
	for _, r := range rows {
		table.Append(r.Participant, strconv.Itoa(r.EndOrder), strconv.Itoa(r.SumScore))
	}
	table.Render()
}

// PrintRangeScores prints per-range subtotals.
func PrintRangeScores(w io.Writer, rows []model.RangeScore) {
	if printEmpty(w, len(rows)) {
		return
	}
	table := newTable(w)
	table.Header("PARTICIPANT", "RANGE", "SUM")
	for _, r := range rows {
		table.Append(r.Participant, r.RangeID, strconv.Itoa(r.SumScore))
	}
	table.Render()
}

// PrintRoundScores prints per-round totals, already ranked.
func PrintRoundScores(w io.Writer, rows []model.RoundScore) {
	if printEmpty(w, len(rows)) {
		return
	}
	table := newTable(w)
	table.Header("#", "PARTICIPANT", "ROUND", "SUM")
	for i, r := range rows {
		table.Append(strconv.Itoa(i+1), r.Participant, r.RoundID, strconv.Itoa(r.SumScore))
	}
	table.Render()
}

// PrintStandings prints a round leaderboard.
func PrintStandings(w io.Writer, rows []model.Standing) {
	if printEmpty(w, len(rows)) {
		return
	}
	table := newTable(w)
	table.Header("#", "PARTICIPANT", "SUM")
	for i, r := range rows {
		table.Append(strconv.Itoa(i+1), r.Participant, strconv.Itoa(r.SumScore))
	}
	table.Render()
}

// PrintYearlyAverage prints the championship leaderboard. The value column is
// named after the basis so normalized and raw averages are never confused.
func PrintYearlyAverage(w io.Writer, y aggregator.YearlyAverage) {
	if printEmpty(w, len(y.Rows)) {
		return
	}
	if y.Capacity.Known {
		fmt.Fprintf(w, "Round %s  |  Max score: %d (%d ends)  |  Competitions: %d\n\n",
			y.Capacity.RoundID, y.Capacity.MaxScore, y.Capacity.Ends, len(y.Competitions))
	}
	table := newTable(w)
	table.Header("#", "PARTICIPANT", y.Basis.ColumnName(), "RECORDS")
	for i, r := range y.Rows {
		val := fmt.Sprintf("%.1f", r.Average)
		if y.Basis == model.BasisNormalized {
			val = fmt.Sprintf("%.1f%%", r.Average*100)
		}
		table.Append(strconv.Itoa(i+1), r.Participant, val, strconv.Itoa(r.Records))
	}
	table.Render()
}

// PrintCapacity prints a round's derived maximum score.
func PrintCapacity(w io.Writer, c aggregator.Capacity) {
	if !c.Known {
		fmt.Fprintf(w, "Round %s: max score unknown\n", c.RoundID)
		return
	}
	fmt.Fprintf(w, "Round %s: %d ends × %d arrows × %d = %d\n",
		c.RoundID, c.Ends, model.ArrowsPerEnd, model.MaxArrowScore, c.MaxScore)
}

// PrintCategoryStanding prints the sorted distribution and marks focusArcher's
// row with ">".
func PrintCategoryStanding(w io.Writer, s aggregator.CategoryStanding, focusArcher string) {
	if printEmpty(w, len(s.Distribution)) {
		return
	}
	table := newTable(w)
	table.Header(" ", "RANK", "ARCHER", "C_SCORE")
	focus := model.NormalizeID(focusArcher)
	marked := false
	for i, c := range s.Distribution {
		marker := " "
		if !marked && focus != "" && c.ArcherID == focus {
			marker, marked = ">", true
		}
		table.Append(marker, strconv.Itoa(i+1), c.ArcherID, strconv.FormatFloat(c.Score, 'f', -1, 64))
	}
	table.Render()
	if s.Percentile != nil {
		fmt.Fprintf(w, "\nPercentile of %s: %.1f\n", focus, *s.Percentile)
	}
}

// PrintOverview prints row counts per store table.
func PrintOverview(w io.Writer, counts []storage.TableCount) {
	table := newTable(w)
	table.Header("TABLE", "ROWS")
	for _, c := range counts {
		table.Append(c.Table, strconv.Itoa(c.Rows))
	}
	table.Render()
}

// PrintRaw prints an arbitrary query result.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	if printEmpty(w, len(rows)) {
		return
	}
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
