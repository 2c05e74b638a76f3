package pipeline

import "fmt"

// MatchError identifies the match whose document failed structural or
// integrity checks. Kind is one of model.ErrMalformedTimeline,
// model.ErrDuplicateParticipant or model.ErrDuplicatePosition.
type MatchError struct {
	MatchID string
	Index   int // position of the timeline in the input, -1 if unknown
	Kind    error
	Detail  string
}

func (e *MatchError) Error() string {
	where := "match " + e.MatchID
	if e.MatchID == "" {
		where = "match <unknown>"
	}
	if e.Index >= 0 {
		where = fmt.Sprintf("%s (timeline %d)", where, e.Index)
	}
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", where, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", where, e.Kind, e.Detail)
}

func (e *MatchError) Unwrap() error { return e.Kind }
