// Package pipeline turns match timelines into one player's normalized
// position time series. Every stage is a pure function over in-memory values;
// calls share no state and may run concurrently.
package pipeline

import (
	"errors"

	"github.com/pable/go-lol-positions/internal/model"
)

// Option configures ComputePositions.
type Option func(*options)

type options struct {
	profile model.MapProfile
}

// WithMapProfile selects the coordinate transform. Defaults to
// model.DefaultMapProfile.
func WithMapProfile(p model.MapProfile) Option {
	return func(o *options) {
		o.profile = p
	}
}

// ComputePositions runs the full pipeline for the player identified by puuid:
// participant index, frame flattening, identity join, then position pivot,
// player selection and normalization. Rows come back ordered by match id and
// timestamp.
//
// Structural and integrity faults abort the call with a *MatchError naming the
// offending match; unmatched participants and incomplete position pairs only
// shrink the output.
func ComputePositions(timelines []model.Timeline, puuid string, opts ...Option) ([]model.PositionRow, error) {
	o := options{profile: model.DefaultMapProfile}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.profile.Validate(); err != nil {
		return nil, err
	}
	if err := validateTimelines(timelines); err != nil {
		return nil, err
	}

	index, err := BuildParticipantIndex(timelines)
	if err != nil {
		return nil, err
	}
	joined := JoinIdentities(FlattenFrames(timelines), index)

	positions, err := PivotPositions(joined)
	if err != nil {
		var me *MatchError
		if errors.As(err, &me) && me.Index < 0 {
			me.Index = timelineIndex(timelines, me.MatchID)
		}
		return nil, err
	}
	return Normalize(SelectPlayer(positions, puuid), o.profile), nil
}

// validateTimelines checks each document carries a match id, a roster and a
// frame list. A nil region means the document never had it; an empty one is
// fine.
func validateTimelines(timelines []model.Timeline) error {
	for i, tl := range timelines {
		var detail string
		switch {
		case tl.MatchID == "":
			detail = "missing match id"
		case tl.Roster == nil:
			detail = "missing roster"
		case tl.Frames == nil:
			detail = "missing frames"
		default:
			continue
		}
		return &MatchError{MatchID: tl.MatchID, Index: i, Kind: model.ErrMalformedTimeline, Detail: detail}
	}
	return nil
}

func timelineIndex(timelines []model.Timeline, matchID string) int {
	for i, tl := range timelines {
		if tl.MatchID == matchID {
			return i
		}
	}
	return -1
}
