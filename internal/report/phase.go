package report

import (
	"fmt"

	"github.com/pable/go-lol-positions/internal/model"
)

// Phase is a game-time bucket used to split a position table.
type Phase int

const (
	PhaseEarly Phase = iota // before 10:00
	PhaseMid                // 10:00 to 20:00 inclusive
	PhaseLate               // after 20:00
)

// Phases lists every phase in game order.
var Phases = []Phase{PhaseEarly, PhaseMid, PhaseLate}

// Phase bounds in milliseconds of game time.
const (
	midStartMs = 600_000
	midEndMs   = 1_200_000
)

func (p Phase) String() string {
	switch p {
	case PhaseEarly:
		return "early"
	case PhaseMid:
		return "mid"
	case PhaseLate:
		return "late"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Label is the human-readable title of the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseEarly:
		return "Before 10 minutes"
	case PhaseMid:
		return "10 to 20 minutes"
	case PhaseLate:
		return "After 20 minutes"
	}
	return p.String()
}

// ParsePhase accepts "early", "mid" or "late".
func ParsePhase(s string) (Phase, error) {
	for _, p := range Phases {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q (want early, mid or late)", s)
}

// PhaseOf returns the phase a timestamp falls into. Both 600000 and
// 1200000 belong to the mid phase.
func PhaseOf(timestampMs int64) Phase {
	switch {
	case timestampMs < midStartMs:
		return PhaseEarly
	case timestampMs <= midEndMs:
		return PhaseMid
	default:
		return PhaseLate
	}
}

// PartitionByPhase splits rows into the three phases, keeping row order
// within each phase. Every phase has a non-nil slice.
func PartitionByPhase(rows []model.PositionRow) map[Phase][]model.PositionRow {
	out := make(map[Phase][]model.PositionRow, len(Phases))
	for _, p := range Phases {
		out[p] = []model.PositionRow{}
	}
	for _, r := range rows {
		p := PhaseOf(r.Timestamp)
		out[p] = append(out[p], r)
	}
	return out
}

// FilterPhase returns the rows that fall into p.
func FilterPhase(rows []model.PositionRow, p Phase) []model.PositionRow {
	return PartitionByPhase(rows)[p]
}
