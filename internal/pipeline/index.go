package pipeline

import (
	"fmt"

	"github.com/pable/go-lol-positions/internal/model"
)

// BuildParticipantIndex maps every (matchId, participantId) pair of the
// rosters to the participant's puuid. Roster entries lacking either field are
// skipped. Two entries with the same key are an integrity fault.
func BuildParticipantIndex(timelines []model.Timeline) (model.ParticipantIndex, error) {
	idx := make(model.ParticipantIndex)
	for i, tl := range timelines {
		for _, entry := range tl.Roster {
			pid, ok := rosterField(entry, "participantId")
			if !ok {
				continue
			}
			puuid, ok := rosterField(entry, "puuid")
			if !ok {
				continue
			}

			key := model.ParticipantKey{MatchID: tl.MatchID, ParticipantID: pid}
			if prev, dup := idx[key]; dup {
				return nil, &MatchError{
					MatchID: tl.MatchID,
					Index:   i,
					Kind:    model.ErrDuplicateParticipant,
					Detail:  fmt.Sprintf("participant %s claimed by %s and %s", pid, prev, puuid),
				}
			}
			idx[key] = puuid
		}
	}
	return idx, nil
}

// rosterField returns a roster attribute in its string form. Only non-empty
// numbers and strings qualify, so 1 and "1" yield the same key.
func rosterField(entry model.Node, name string) (string, bool) {
	v, ok := entry.Get(name)
	if !ok || (v.Kind != model.KindNumber && v.Kind != model.KindString) {
		return "", false
	}
	s, _ := v.Text()
	return s, s != ""
}
