package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
)

// renderer prints scorecards of a replayed match.
type renderer struct {
	w     io.Writer
	mf    *MatchFile
	names map[uint]string
}

func newRenderer(w io.Writer, mf *MatchFile) *renderer {
	return &renderer{w: w, mf: mf, names: mf.names()}
}

func (r *renderer) name(id uint) string {
	if n, ok := r.names[id]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("#%d", id)
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(title)
	return tbl
}

// render prints every innings, or only number when it is not zero, then the result.
func (r *renderer) render(m *scoring.Match, number int) error {
	title := r.mf.Title
	if title == "" {
		title = r.mf.Home.Name + " vs " + r.mf.Away.Name
	}
	fmt.Fprintf(r.w, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))

	for _, inn := range m.Innings() {
		if number != 0 && inn.Number != number {
			continue
		}
		stats, err := m.Statistics(inn.ID)
		if err != nil {
			return err
		}
		r.innings(inn, stats)
	}

	if res, ok := m.Result(); ok {
		fmt.Fprintf(r.w, "Result: %s\n", res.Summary)
	} else {
		fmt.Fprintf(r.w, "Match state: %s\n", m.State())
	}
	return nil
}

func (r *renderer) innings(inn scoring.Innings, stats scoring.Statistics) {
	s := stats.Summary
	line := fmt.Sprintf("Innings %d: %s %d/%d (%s ov, RR %.2f)", inn.Number, r.mf.teamName(inn.BattingTeamID),
		s.Runs, s.Wickets, s.Overs, s.RunRate)
	if inn.Declared {
		line += " declared"
	}
	fmt.Fprintln(r.w, line)
	fmt.Fprintf(r.w, "Extras %d (w %d, nb %d, b %d, lb %d)\n\n",
		s.Extras.Total, s.Extras.Wides, s.Extras.NoBalls, s.Extras.Byes, s.Extras.LegByes)

	fmt.Fprintln(r.w, r.batting(stats.BattingStats))
	fmt.Fprintln(r.w, r.bowling(stats.BowlingStats))
	if len(stats.FallOfWickets) > 0 {
		fmt.Fprintln(r.w, r.fallOfWickets(stats.FallOfWickets))
	}
	if len(stats.Partnerships) > 0 {
		fmt.Fprintln(r.w, r.partnerships(stats.Partnerships))
	}
	fmt.Fprintln(r.w)
}

func (r *renderer) howOut(b scoring.BattingStat) string {
	if !b.IsOut {
		return "not out"
	}
	out := strings.ReplaceAll(string(b.HowOut), "_", " ")
	if b.FielderID != nil {
		out += " (" + r.name(*b.FielderID) + ")"
	}
	if b.BowlerID != nil {
		out += " b " + r.name(*b.BowlerID)
	}
	return out
}

func (r *renderer) batting(rows []scoring.BattingStat) string {
	tbl := newTable("Batting")
	tbl.AppendHeader(table.Row{"Batter", "Dismissal", "R", "B", "4s", "6s", "SR"})
	for _, b := range rows {
		tbl.AppendRow(table.Row{r.name(b.PlayerID), r.howOut(b), b.Runs, b.Balls, b.Fours, b.Sixes, fmt.Sprintf("%.2f", b.StrikeRate)})
	}
	tbl.SetColumnConfigs(numericColumns(3, 7))
	return tbl.Render()
}

func (r *renderer) bowling(rows []scoring.BowlingStat) string {
	tbl := newTable("Bowling")
	tbl.AppendHeader(table.Row{"Bowler", "O", "M", "R", "W", "Econ", "WD", "NB"})
	for _, b := range rows {
		tbl.AppendRow(table.Row{r.name(b.PlayerID), b.OversBowled, b.Maidens, b.RunsConceded, b.Wickets,
			fmt.Sprintf("%.2f", b.EconomyRate), b.Wides, b.NoBalls})
	}
	tbl.SetColumnConfigs(numericColumns(2, 8))
	return tbl.Render()
}

func (r *renderer) fallOfWickets(rows []scoring.FallOfWicket) string {
	tbl := newTable("Fall of wickets")
	tbl.AppendHeader(table.Row{"#", "Score", "Overs", "Batter"})
	for _, f := range rows {
		tbl.AppendRow(table.Row{f.WicketNumber, f.TeamScore, f.Overs, r.name(f.DismissedPlayerID)})
	}
	return tbl.Render()
}

func (r *renderer) partnerships(rows []scoring.Partnership) string {
	tbl := newTable("Partnerships")
	tbl.AppendHeader(table.Row{"Wkt", "Pair", "Runs", "Balls"})
	for _, p := range rows {
		if p.BatsmanAID == 0 || p.BatsmanBID == 0 {
			// no ball since the last wicket
			continue
		}
		wkt := "unbroken"
		if p.WicketNumber > 0 {
			wkt = fmt.Sprint(p.WicketNumber)
		}
		pair := fmt.Sprintf("%s %d(%d), %s %d(%d)", r.name(p.BatsmanAID), p.BatsmanARuns, p.BatsmanABalls,
			r.name(p.BatsmanBID), p.BatsmanBRuns, p.BatsmanBBalls)
		tbl.AppendRow(table.Row{wkt, pair, p.Runs, p.Balls})
	}
	return tbl.Render()
}

// numericColumns right-aligns the columns from..to, 1-based and inclusive.
func numericColumns(from, to int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, 0, to-from+1)
	for n := from; n <= to; n++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	return cfgs
}
