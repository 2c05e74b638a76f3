// Package report renders position tables and stored-data listings as
// terminal tables and CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-lol-positions/internal/aggregator"
	"github.com/pable/go-lol-positions/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// GameClock formats milliseconds of game time as m:ss.
func GameClock(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// PrintPositions prints one row per position sample.
func PrintPositions(w io.Writer, rows []model.PositionRow) {
	table := newTable(w)
	table.Header("MATCH", "TIME", "TIMESTAMP", "X", "Y", "PHASE")
	for _, r := range rows {
		table.Append(
			r.MatchID,
			GameClock(r.Timestamp),
			strconv.FormatInt(r.Timestamp, 10),
			fmt.Sprintf("%.1f", r.X),
			fmt.Sprintf("%.1f", r.Y),
			PhaseOf(r.Timestamp).String(),
		)
	}
	table.Render()
}

// PrintMatchSummary prints per-match sample counts, time span, centroid and
// path length.
func PrintMatchSummary(w io.Writer, rows []model.PositionRow) {
	table := newTable(w)
	table.Header("MATCH", "SAMPLES", "FIRST", "LAST", "CENTROID_X", "CENTROID_Y", "MEDIAN_X", "MEDIAN_Y", "PATH")
	for _, s := range aggregator.SummarizeMatches(rows) {
		table.Append(
			s.MatchID,
			strconv.Itoa(s.Samples),
			GameClock(s.FirstMs),
			GameClock(s.LastMs),
			fmt.Sprintf("%.1f", s.CentroidX),
			fmt.Sprintf("%.1f", s.CentroidY),
			fmt.Sprintf("%.1f", s.MedianX),
			fmt.Sprintf("%.1f", s.MedianY),
			fmt.Sprintf("%.0f", s.Distance),
		)
	}
	table.Render()
}

// PrintPhaseSummary prints how samples split across the game phases.
func PrintPhaseSummary(w io.Writer, rows []model.PositionRow) {
	labels := make([]string, len(Phases))
	for i, p := range Phases {
		labels[i] = p.Label()
	}
	shares := aggregator.PhaseShares(rows, labels, func(ts int64) string {
		return PhaseOf(ts).Label()
	})

	table := newTable(w)
	table.Header("PHASE", "SAMPLES", "MATCHES", "SHARE")
	for _, s := range shares {
		table.Append(
			s.Phase,
			strconv.Itoa(s.Samples),
			strconv.Itoa(s.Matches),
			fmt.Sprintf("%.0f%%", s.Pct),
		)
	}
	table.Render()
}

// PrintPlayers prints stored players with their linked match counts.
func PrintPlayers(w io.Writer, players []model.Player) {
	table := newTable(w)
	table.Header("RIOT_ID", "PUUID", "MATCHES", "FETCHED")
	for _, p := range players {
		table.Append(p.RiotID(), shortID(p.PUUID), strconv.Itoa(p.Matches), p.FetchedAt)
	}
	table.Render()
}

// PrintMatches prints stored timelines.
func PrintMatches(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH", "FRAMES", "PLAYERS", "SIZE", "FETCHED")
	for _, m := range matches {
		table.Append(
			m.MatchID,
			strconv.Itoa(m.FrameCount),
			strconv.Itoa(m.Players),
			fmt.Sprintf("%.1f KB", float64(m.SizeBytes)/1024),
			m.FetchedAt,
		)
	}
	table.Render()
}

// PrintMapProfiles prints the coordinate transform of each profile.
func PrintMapProfiles(w io.Writer, profiles []model.MapProfile) {
	table := newTable(w)
	table.Header("MAP", "OFFSET", "EXTENT", "CANVAS", "MARGIN", "RANGE")
	for _, p := range profiles {
		table.Append(
			p.Name,
			fmt.Sprintf("%g", p.Offset),
			fmt.Sprintf("%g", p.Extent),
			fmt.Sprintf("%g", p.Canvas),
			fmt.Sprintf("%g", p.Margin),
			fmt.Sprintf("%g-%g", p.Margin, p.Margin+p.Canvas),
		)
	}
	table.Render()
}

// csvHeader matches the column names consumed by the map renderer.
var csvHeader = []string{"puuid", "matchId", "timestamp", "x", "y"}

// WriteCSV writes rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []model.PositionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.PUUID,
			r.MatchID,
			strconv.FormatInt(r.Timestamp, 10),
			strconv.FormatFloat(r.X, 'f', -1, 64),
			strconv.FormatFloat(r.Y, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s@%d: %w", r.MatchID, r.Timestamp, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func shortID(s string) string {
	if len(s) > 12 {
		return s[:12] + "…"
	}
	return s
}
