// Package aggregator computes per-match summaries of a position table.
package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-lol-positions/internal/model"
)

// SummarizeMatches groups rows by match and computes sample counts, time
// span, centroid, median position and path length. Rows are expected in
// pipeline order (match id, then timestamp); output follows first
// appearance of each match.
func SummarizeMatches(rows []model.PositionRow) []model.MatchPositions {
	type acc struct {
		sum  model.MatchPositions
		xs   []float64
		ys   []float64
		last *model.PositionRow
	}

	var order []string
	byMatch := make(map[string]*acc)
	for i := range rows {
		r := &rows[i]
		a, ok := byMatch[r.MatchID]
		if !ok {
			a = &acc{sum: model.MatchPositions{MatchID: r.MatchID, FirstMs: r.Timestamp, LastMs: r.Timestamp}}
			byMatch[r.MatchID] = a
			order = append(order, r.MatchID)
		}

		s := &a.sum
		s.Samples++
		s.FirstMs = min(s.FirstMs, r.Timestamp)
		s.LastMs = max(s.LastMs, r.Timestamp)
		s.CentroidX += r.X
		s.CentroidY += r.Y
		a.xs = append(a.xs, r.X)
		a.ys = append(a.ys, r.Y)
		if a.last != nil {
			s.Distance += math.Hypot(r.X-a.last.X, r.Y-a.last.Y)
		}
		a.last = r
	}

	out := make([]model.MatchPositions, 0, len(order))
	for _, id := range order {
		a := byMatch[id]
		s := a.sum
		n := float64(s.Samples)
		s.CentroidX /= n
		s.CentroidY /= n
		sort.Float64s(a.xs)
		sort.Float64s(a.ys)
		s.MedianX = median(a.xs)
		s.MedianY = median(a.ys)
		out = append(out, s)
	}
	return out
}

// PhaseShares counts samples and distinct matches per phase. classify maps
// a timestamp to a phase label; labels are reported in the given order.
func PhaseShares(rows []model.PositionRow, labels []string, classify func(ts int64) string) []model.PhaseShare {
	samples := make(map[string]int, len(labels))
	matches := make(map[string]map[string]bool, len(labels))
	for _, r := range rows {
		l := classify(r.Timestamp)
		samples[l]++
		if matches[l] == nil {
			matches[l] = make(map[string]bool)
		}
		matches[l][r.MatchID] = true
	}

	out := make([]model.PhaseShare, 0, len(labels))
	for _, l := range labels {
		ps := model.PhaseShare{Phase: l, Samples: samples[l], Matches: len(matches[l])}
		if len(rows) > 0 {
			ps.Pct = float64(ps.Samples) / float64(len(rows)) * 100
		}
		out = append(out, ps)
	}
	return out
}

// median returns the median of a pre-sorted (ascending) slice of float64.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
