package pipeline

import (
	"sort"

	"github.com/pable/go-lol-positions/internal/model"
)

// JoinIdentities left-joins events with the participant index on
// (matchId, participantId). Events without a roster entry are kept with
// Resolved=false.
func JoinIdentities(events []model.FlatEvent, index model.ParticipantIndex) []model.JoinedEvent {
	out := make([]model.JoinedEvent, len(events))
	for i, ev := range events {
		puuid, ok := index[ev.Key()]
		out[i] = model.JoinedEvent{FlatEvent: ev, PUUID: puuid, Resolved: ok}
	}
	return out
}

// DropUnresolved removes events whose identity could not be resolved.
func DropUnresolved(joined []model.JoinedEvent) []model.JoinedEvent {
	out := make([]model.JoinedEvent, 0, len(joined))
	for _, ev := range joined {
		if ev.Resolved {
			out = append(out, ev)
		}
	}
	return out
}

// UnresolvedKeys lists the distinct participant keys that found no roster
// entry, ordered by match then participant.
func UnresolvedKeys(joined []model.JoinedEvent) []model.ParticipantKey {
	seen := make(map[model.ParticipantKey]struct{})
	var keys []model.ParticipantKey
	for _, ev := range joined {
		if ev.Resolved {
			continue
		}
		k := ev.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].MatchID != keys[j].MatchID {
			return keys[i].MatchID < keys[j].MatchID
		}
		return keys[i].ParticipantID < keys[j].ParticipantID
	})
	return keys
}
