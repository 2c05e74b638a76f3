package model

import "errors"

// Sentinel errors shared by the parser and the position pipeline.
var (
	// ErrMalformedTimeline marks a timeline document missing a required region.
	ErrMalformedTimeline = errors.New("malformed timeline")
	// ErrDuplicateParticipant marks two roster entries claiming the same
	// (matchId, participantId) key.
	ErrDuplicateParticipant = errors.New("duplicate participant")
	// ErrDuplicatePosition marks two values for the same position coordinate
	// of one player at one timestamp.
	ErrDuplicatePosition = errors.New("duplicate position sample")
)

// ---- Raw documents produced by the parser ----

// Timeline is one match's frame record plus its participant roster.
type Timeline struct {
	MatchID string
	// Roster holds one mapping per participant descriptor, undecoded so that
	// entries missing fields can be skipped by the index builder.
	Roster []Node
	Frames []Frame
}

// Frame is a snapshot of every participant at one instant.
type Frame struct {
	Timestamp int64 // ms since match start
	// Body is the frame mapping without its timestamp, e.g.
	// {"participantFrames": {"1": {"position": {"x": .., "y": ..}}}, "events": [...]}.
	Body Node
}

// ---- Intermediate tables ----

// ParticipantKey identifies one participant within one match.
type ParticipantKey struct {
	MatchID       string
	ParticipantID string
}

// ParticipantIndex maps per-match participant ids to global player identities.
type ParticipantIndex map[ParticipantKey]string

// FlatEvent is one atomic observation: the value of metric/submetric for a
// participant at a frame timestamp.
type FlatEvent struct {
	Timestamp     int64
	MatchID       string
	ParticipantID string
	Metric        string
	Submetric     string
	Value         Node
}

// Key returns the participant join key of the event.
func (e FlatEvent) Key() ParticipantKey {
	return ParticipantKey{MatchID: e.MatchID, ParticipantID: e.ParticipantID}
}

// JoinedEvent is a FlatEvent with its resolved player identity.
// Resolved is false when the event's participant key has no roster entry.
type JoinedEvent struct {
	FlatEvent
	PUUID    string
	Resolved bool
}

// ---- Output ----

// PositionRow is one normalized position sample of a player.
type PositionRow struct {
	PUUID     string
	MatchID   string
	Timestamp int64
	X, Y      float64
}

// ---- Stored records ----

// Player is a resolved Riot account.
type Player struct {
	PUUID     string
	GameName  string
	TagLine   string
	FetchedAt string // RFC 3339
	Matches   int    // populated by list queries
}

// RiotID renders the account as gameName#tagLine.
func (p Player) RiotID() string {
	return p.GameName + "#" + p.TagLine
}

// MatchSummary is a lightweight record for list commands.
type MatchSummary struct {
	MatchID    string
	FrameCount int
	FetchedAt  string // RFC 3339
	SizeBytes  int    // compressed timeline size
	Players    int    // tracked players linked to the match
}

// MatchPositions summarizes one player's position table within one match.
type MatchPositions struct {
	MatchID   string
	Samples   int
	FirstMs   int64
	LastMs    int64
	CentroidX float64
	CentroidY float64
	MedianX   float64
	MedianY   float64
	Distance  float64 // path length between consecutive samples, canvas units
}

// PhaseShare is the number of samples falling into one game phase.
type PhaseShare struct {
	Phase   string
	Samples int
	Matches int
	Pct     float64 // share of all samples, 0-100
}
