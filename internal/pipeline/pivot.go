package pipeline

import (
	"fmt"
	"sort"

	"github.com/pable/go-lol-positions/internal/model"
)

const (
	positionMetric = "position"
	axisX          = "x"
	axisY          = "y"
)

type positionKey struct {
	puuid   string
	matchID string
	ts      int64
}

// axisSample tracks one coordinate of a group. seen is set by any sample,
// numeric ones also set ok.
type axisSample struct {
	v        float64
	seen, ok bool
}

type positionGroup struct {
	x, y axisSample
}

// PivotPositions reshapes resolved position events into one raw (x, y) row
// per (puuid, matchId, timestamp). Unresolved events are dropped first.
// Groups lacking a numeric x or y are dropped; a coordinate reported twice
// for the same group is an integrity fault.
func PivotPositions(joined []model.JoinedEvent) ([]model.PositionRow, error) {
	groups := make(map[positionKey]*positionGroup)
	var order []positionKey

	for _, ev := range DropUnresolved(joined) {
		if ev.Metric != positionMetric {
			continue
		}
		if ev.Submetric != axisX && ev.Submetric != axisY {
			continue
		}

		k := positionKey{puuid: ev.PUUID, matchID: ev.MatchID, ts: ev.Timestamp}
		g, ok := groups[k]
		if !ok {
			g = &positionGroup{}
			groups[k] = g
			order = append(order, k)
		}
		s := &g.x
		if ev.Submetric == axisY {
			s = &g.y
		}
		if s.seen {
			return nil, &MatchError{
				MatchID: ev.MatchID,
				Index:   -1,
				Kind:    model.ErrDuplicatePosition,
				Detail:  fmt.Sprintf("%s.%s for %s at %d", ev.Metric, ev.Submetric, ev.PUUID, ev.Timestamp),
			}
		}
		s.seen = true
		s.v, s.ok = ev.Value.Float()
	}

	rows := make([]model.PositionRow, 0, len(order))
	for _, k := range order {
		g := groups[k]
		if !g.x.ok || !g.y.ok {
			continue
		}
		rows = append(rows, model.PositionRow{
			PUUID:     k.puuid,
			MatchID:   k.matchID,
			Timestamp: k.ts,
			X:         g.x.v,
			Y:         g.y.v,
		})
	}
	sortRows(rows)
	return rows, nil
}

// SelectPlayer keeps the rows belonging to puuid.
func SelectPlayer(rows []model.PositionRow, puuid string) []model.PositionRow {
	out := make([]model.PositionRow, 0, len(rows))
	for _, r := range rows {
		if r.PUUID == puuid {
			out = append(out, r)
		}
	}
	return out
}

// Normalize returns a copy of rows with both axes mapped through profile.
func Normalize(rows []model.PositionRow, profile model.MapProfile) []model.PositionRow {
	out := make([]model.PositionRow, len(rows))
	for i, r := range rows {
		r.X = profile.Normalize(r.X)
		r.Y = profile.Normalize(r.Y)
		out[i] = r
	}
	return out
}

// sortRows orders rows by match, then timestamp, then player.
func sortRows(rows []model.PositionRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.PUUID < b.PUUID
	})
}
