// Package parser decodes raw match-v5 timeline documents into model.Timeline.
package parser

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/pable/go-lol-positions/internal/model"
)

// ParseTimeline parses one timeline JSON document. The document must carry
// metadata.matchId, info.participants and info.frames, and every frame must
// carry a numeric timestamp; anything else is a malformed timeline.
func ParseTimeline(data []byte) (*model.Timeline, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", model.ErrMalformedTimeline)
	}
	doc := gjson.ParseBytes(data)

	matchID := doc.Get("metadata.matchId")
	if matchID.Type != gjson.String || matchID.Str == "" {
		return nil, fmt.Errorf("%w: missing metadata.matchId", model.ErrMalformedTimeline)
	}
	tl := &model.Timeline{MatchID: matchID.Str}

	participants := doc.Get("info.participants")
	if !participants.IsArray() {
		return nil, fmt.Errorf("timeline %s: %w: missing info.participants", tl.MatchID, model.ErrMalformedTimeline)
	}
	entries := participants.Array()
	tl.Roster = make([]model.Node, 0, len(entries))
	for _, e := range entries {
		tl.Roster = append(tl.Roster, toNode(e))
	}

	frames := doc.Get("info.frames")
	if !frames.IsArray() {
		return nil, fmt.Errorf("timeline %s: %w: missing info.frames", tl.MatchID, model.ErrMalformedTimeline)
	}
	rawFrames := frames.Array()
	tl.Frames = make([]model.Frame, 0, len(rawFrames))
	for i, f := range rawFrames {
		if !f.IsObject() {
			return nil, fmt.Errorf("timeline %s: %w: frame %d is not an object", tl.MatchID, model.ErrMalformedTimeline, i)
		}
		ts := f.Get("timestamp")
		if ts.Type != gjson.Number {
			return nil, fmt.Errorf("timeline %s: %w: frame %d has no timestamp", tl.MatchID, model.ErrMalformedTimeline, i)
		}

		var body []model.Field
		f.ForEach(func(key, value gjson.Result) bool {
			if key.Str != "timestamp" {
				body = append(body, model.Field{Key: key.Str, Value: toNode(value)})
			}
			return true
		})
		tl.Frames = append(tl.Frames, model.Frame{
			Timestamp: ts.Int(),
			Body:      model.Object(body...),
		})
	}
	return tl, nil
}

// ParseTimelines parses a batch of documents, failing on the first malformed one.
func ParseTimelines(docs [][]byte) ([]model.Timeline, error) {
	out := make([]model.Timeline, 0, len(docs))
	for i, d := range docs {
		tl, err := ParseTimeline(d)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, *tl)
	}
	return out, nil
}

// toNode converts a gjson value tree into a model.Node.
func toNode(r gjson.Result) model.Node {
	switch r.Type {
	case gjson.Number:
		return model.Number(r.Num)
	case gjson.String:
		return model.String(r.Str)
	case gjson.True:
		return model.Bool(true)
	case gjson.False:
		return model.Bool(false)
	case gjson.JSON:
		if r.IsArray() {
			arr := r.Array()
			items := make([]model.Node, len(arr))
			for i, v := range arr {
				items[i] = toNode(v)
			}
			return model.List(items...)
		}
		var fields []model.Field
		r.ForEach(func(key, value gjson.Result) bool {
			fields = append(fields, model.Field{Key: key.Str, Value: toNode(value)})
			return true
		})
		return model.Object(fields...)
	}
	return model.Null()
}
