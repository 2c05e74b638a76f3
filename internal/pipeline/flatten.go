package pipeline

import (
	"strings"

	"github.com/pable/go-lol-positions/internal/model"
)

// Segments of a frame leaf path: <group>.<participantId>.<metric>.<submetric>.
const (
	segGroup = iota
	segParticipant
	segMetric
	segSubmetric
)

// FlattenFrames turns every frame of every timeline into atomic events, one
// per leaf of the frame tree whose path decomposes into group, participant,
// metric and submetric. Shallower leaves (scalars such as currentGold, or the
// events list) produce nothing.
func FlattenFrames(timelines []model.Timeline) []model.FlatEvent {
	var out []model.FlatEvent
	for _, tl := range timelines {
		for _, fr := range tl.Frames {
			walkLeaves(fr.Body, nil, func(path []string, leaf model.Node) {
				ev, ok := decompose(path, leaf)
				if !ok {
					return
				}
				ev.Timestamp = fr.Timestamp
				ev.MatchID = tl.MatchID
				out = append(out, ev)
			})
		}
	}
	return out
}

// walkLeaves calls fn for each leaf under n with its key path. Sequences are
// leaves. fn must not retain path.
func walkLeaves(n model.Node, path []string, fn func(path []string, leaf model.Node)) {
	if n.Kind != model.KindMap {
		if len(path) > 0 {
			fn(path, n)
		}
		return
	}
	for _, k := range n.Keys() {
		child, _ := n.Get(k)
		walkLeaves(child, append(path, k), fn)
	}
}

// decompose maps a leaf path onto a FlatEvent. Paths deeper than four
// segments keep the remainder as a dotted submetric.
func decompose(path []string, leaf model.Node) (model.FlatEvent, bool) {
	if len(path) <= segSubmetric {
		return model.FlatEvent{}, false
	}
	for _, seg := range path {
		if seg == "" {
			return model.FlatEvent{}, false
		}
	}
	return model.FlatEvent{
		ParticipantID: path[segParticipant],
		Metric:        path[segMetric],
		Submetric:     strings.Join(path[segSubmetric:], "."),
		Value:         leaf,
	}, true
}
