package pipeline

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/pable/go-lol-positions/internal/model"
)

// ---- builders ----

func field(key string, v model.Node) model.Field {
	return model.Field{Key: key, Value: v}
}

// rosterEntry builds a roster descriptor with a numeric participantId.
func rosterEntry(pid int, puuid string) model.Node {
	return model.Object(
		field("participantId", model.Number(float64(pid))),
		field("puuid", model.String(puuid)),
	)
}

// snapshot builds one participant's metric tree with a position.
func snapshot(x, y float64) model.Node {
	return model.Object(
		field("currentGold", model.Number(500)),
		field("position", model.Object(
			field("x", model.Number(x)),
			field("y", model.Number(y)),
		)),
	)
}

// frame wraps participant snapshots the way match-v5 timelines lay them out.
func frame(ts int64, participants ...model.Field) model.Frame {
	return model.Frame{
		Timestamp: ts,
		Body: model.Object(
			field("events", model.List()),
			field("participantFrames", model.Object(participants...)),
		),
	}
}

func makeTimeline(matchID string, roster []model.Node, frames ...model.Frame) model.Timeline {
	if roster == nil {
		roster = []model.Node{}
	}
	if frames == nil {
		frames = []model.Frame{}
	}
	return model.Timeline{MatchID: matchID, Roster: roster, Frames: frames}
}

func norm(v float64) float64 {
	return model.DefaultMapProfile.Normalize(v)
}

// ---- scenarios ----

func TestComputePositions_SingleFrame(t *testing.T) {
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1")},
		frame(60000, field("1", snapshot(1000, 2000))),
	)

	rows, err := ComputePositions([]model.Timeline{tl}, "P1")
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	want := []model.PositionRow{
		{PUUID: "P1", MatchID: "M1", Timestamp: 60000, X: norm(1000), Y: norm(2000)},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows mismatch:\n got  %+v\n want %+v", rows, want)
	}
}

func TestComputePositions_NoPositionMetric(t *testing.T) {
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1")},
		frame(60000, field("1", model.Object(
			field("currentGold", model.Number(500)),
			field("championStats", model.Object(field("armor", model.Number(30)))),
		))),
	)

	rows, err := ComputePositions([]model.Timeline{tl}, "P1")
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows without a position metric, got %d", len(rows))
	}
}

func TestComputePositions_RosterParticipantWithoutFrames(t *testing.T) {
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1"), rosterEntry(2, "P2")},
		frame(60000, field("1", snapshot(1000, 2000))),
	)

	rows, err := ComputePositions([]model.Timeline{tl}, "P2")
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows for P2, got %d", len(rows))
	}
}

func TestComputePositions_TwoMatches(t *testing.T) {
	// The player has a different participantId in each match.
	m2 := makeTimeline("M2",
		[]model.Node{rosterEntry(1, "P9"), rosterEntry(4, "P1")},
		frame(60000, field("1", snapshot(500, 500)), field("4", snapshot(7000, 7100))),
		frame(120000, field("4", snapshot(7200, 7300))),
	)
	m1 := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1")},
		frame(60000, field("1", snapshot(1000, 2000))),
	)

	rows, err := ComputePositions([]model.Timeline{m2, m1}, "P1")
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	want := []model.PositionRow{
		{PUUID: "P1", MatchID: "M1", Timestamp: 60000, X: norm(1000), Y: norm(2000)},
		{PUUID: "P1", MatchID: "M2", Timestamp: 60000, X: norm(7000), Y: norm(7100)},
		{PUUID: "P1", MatchID: "M2", Timestamp: 120000, X: norm(7200), Y: norm(7300)},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows mismatch:\n got  %+v\n want %+v", rows, want)
	}
}

func TestComputePositions_IdentityScoping(t *testing.T) {
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1"), rosterEntry(2, "P2"), rosterEntry(3, "P3")},
		frame(60000,
			field("1", snapshot(1000, 1000)),
			field("2", snapshot(2000, 2000)),
			field("3", snapshot(3000, 3000)),
		),
		frame(120000,
			field("1", snapshot(1100, 1100)),
			field("2", snapshot(2100, 2100)),
		),
	)

	for _, puuid := range []string{"P1", "P2", "P3"} {
		rows, err := ComputePositions([]model.Timeline{tl}, puuid)
		if err != nil {
			t.Fatalf("ComputePositions(%s): %v", puuid, err)
		}
		if len(rows) == 0 {
			t.Errorf("%s: expected rows", puuid)
		}
		for _, r := range rows {
			if r.PUUID != puuid {
				t.Errorf("%s: got row for %s", puuid, r.PUUID)
			}
		}
	}
}

func TestComputePositions_UnknownPlayer(t *testing.T) {
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1")},
		frame(60000, field("1", snapshot(1000, 2000))),
	)
	rows, err := ComputePositions([]model.Timeline{tl}, "nobody")
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestComputePositions_Idempotent(t *testing.T) {
	tls := []model.Timeline{
		makeTimeline("M1",
			[]model.Node{rosterEntry(1, "P1"), rosterEntry(2, "P2")},
			frame(0, field("1", snapshot(560, 580)), field("2", snapshot(14100, 14200))),
			frame(60000, field("1", snapshot(1000, 2000)), field("2", snapshot(13000, 12000))),
		),
	}

	first, err := ComputePositions(tls, "P1")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := ComputePositions(tls, "P1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n first  %+v\n second %+v", first, second)
	}
}

func TestComputePositions_ConcurrentCalls(t *testing.T) {
	tls := []model.Timeline{
		makeTimeline("M1",
			[]model.Node{rosterEntry(1, "P1"), rosterEntry(2, "P2")},
			frame(60000, field("1", snapshot(1000, 2000)), field("2", snapshot(3000, 4000))),
		),
	}

	var wg sync.WaitGroup
	results := make([][]model.PositionRow, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			puuid := "P1"
			if i%2 == 1 {
				puuid = "P2"
			}
			results[i], errs[i] = ComputePositions(tls, puuid)
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("call %d: %v", i, errs[i])
		}
		if len(results[i]) != 1 {
			t.Errorf("call %d: expected 1 row, got %d", i, len(results[i]))
		}
	}
}

// ---- data quality gaps ----

func TestComputePositions_UnmatchedParticipantExcluded(t *testing.T) {
	// Participant 3 reports a position but is not on the roster.
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1")},
		frame(60000, field("1", snapshot(1000, 2000)), field("3", snapshot(5000, 5000))),
	)
	tls := []model.Timeline{tl}

	index, err := BuildParticipantIndex(tls)
	if err != nil {
		t.Fatalf("BuildParticipantIndex: %v", err)
	}
	joined := JoinIdentities(FlattenFrames(tls), index)

	unresolved := UnresolvedKeys(joined)
	want := []model.ParticipantKey{{MatchID: "M1", ParticipantID: "3"}}
	if !reflect.DeepEqual(unresolved, want) {
		t.Errorf("UnresolvedKeys: got %v, want %v", unresolved, want)
	}

	rows, err := PivotPositions(joined)
	if err != nil {
		t.Fatalf("PivotPositions: %v", err)
	}
	for _, r := range rows {
		if r.PUUID != "P1" {
			t.Errorf("row without roster identity reached the pivot output: %+v", r)
		}
	}
	if len(rows) != 1 {
		t.Errorf("expected only the resolved participant's row, got %d", len(rows))
	}
}

func TestComputePositions_IncompletePairDropped(t *testing.T) {
	onlyX := model.Object(field("position", model.Object(field("x", model.Number(1000)))))
	onlyY := model.Object(field("position", model.Object(field("y", model.Number(1000)))))
	textX := model.Object(field("position", model.Object(
		field("x", model.String("n/a")),
		field("y", model.Number(1000)),
	)))
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1")},
		frame(60000, field("1", onlyX)),
		frame(120000, field("1", onlyY)),
		frame(180000, field("1", textX)),
		frame(240000, field("1", snapshot(2000, 3000))),
	)

	rows, err := ComputePositions([]model.Timeline{tl}, "P1")
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	if len(rows) != 1 || rows[0].Timestamp != 240000 {
		t.Fatalf("expected only the complete pair at 240000, got %+v", rows)
	}
}

func TestComputePositions_RosterEntriesMissingFields(t *testing.T) {
	tl := makeTimeline("M1",
		[]model.Node{
			model.Object(field("participantId", model.Number(1))),
			model.Object(field("puuid", model.String("P2"))),
			model.Object(field("participantId", model.Null()), field("puuid", model.String("P3"))),
			rosterEntry(4, "P4"),
		},
		frame(60000, field("1", snapshot(1000, 1000)), field("4", snapshot(4000, 4000))),
	)

	index, err := BuildParticipantIndex([]model.Timeline{tl})
	if err != nil {
		t.Fatalf("BuildParticipantIndex: %v", err)
	}
	if len(index) != 1 {
		t.Errorf("expected 1 index entry, got %d: %v", len(index), index)
	}
	rows, err := ComputePositions([]model.Timeline{tl}, "P4")
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row for P4, got %d", len(rows))
	}
}

func TestBuildParticipantIndex_StringAndNumberIDsAgree(t *testing.T) {
	tls := []model.Timeline{
		makeTimeline("M1", []model.Node{rosterEntry(7, "P1")}),
		makeTimeline("M2", []model.Node{model.Object(
			field("participantId", model.String("7")),
			field("puuid", model.String("P1")),
		)}),
	}
	index, err := BuildParticipantIndex(tls)
	if err != nil {
		t.Fatalf("BuildParticipantIndex: %v", err)
	}
	for _, m := range []string{"M1", "M2"} {
		if got := index[model.ParticipantKey{MatchID: m, ParticipantID: "7"}]; got != "P1" {
			t.Errorf("%s: want P1 under key \"7\", got %q", m, got)
		}
	}
}

// ---- faults ----

func TestComputePositions_MalformedTimeline(t *testing.T) {
	good := makeTimeline("M1", []model.Node{rosterEntry(1, "P1")})
	cases := map[string]model.Timeline{
		"no match id": {Roster: []model.Node{}, Frames: []model.Frame{}},
		"no roster":   {MatchID: "M2", Frames: []model.Frame{}},
		"no frames":   {MatchID: "M2", Roster: []model.Node{}},
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			rows, err := ComputePositions([]model.Timeline{good, bad}, "P1")
			if rows != nil {
				t.Errorf("expected no partial table, got %d rows", len(rows))
			}
			if !errors.Is(err, model.ErrMalformedTimeline) {
				t.Fatalf("expected ErrMalformedTimeline, got %v", err)
			}
			var me *MatchError
			if !errors.As(err, &me) {
				t.Fatalf("expected *MatchError, got %T", err)
			}
			if me.Index != 1 {
				t.Errorf("expected failing timeline index 1, got %d", me.Index)
			}
		})
	}
}

func TestComputePositions_DuplicateParticipant(t *testing.T) {
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1"), rosterEntry(1, "P2")},
		frame(60000, field("1", snapshot(1000, 2000))),
	)

	_, err := ComputePositions([]model.Timeline{tl}, "P1")
	if !errors.Is(err, model.ErrDuplicateParticipant) {
		t.Fatalf("expected ErrDuplicateParticipant, got %v", err)
	}
	var me *MatchError
	if !errors.As(err, &me) || me.MatchID != "M1" || me.Index != 0 {
		t.Errorf("expected MatchError for M1 at index 0, got %+v", me)
	}
}

func TestComputePositions_DuplicatePositionSample(t *testing.T) {
	// Two frames share a timestamp, so the pivot sees two x values.
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1")},
		frame(60000, field("1", snapshot(1000, 2000))),
		frame(60000, field("1", snapshot(1100, 2100))),
	)

	_, err := ComputePositions([]model.Timeline{makeTimeline("M0", nil), tl}, "P1")
	if !errors.Is(err, model.ErrDuplicatePosition) {
		t.Fatalf("expected ErrDuplicatePosition, got %v", err)
	}
	var me *MatchError
	if !errors.As(err, &me) || me.MatchID != "M1" || me.Index != 1 {
		t.Errorf("expected MatchError for M1 at index 1, got %+v", me)
	}
}

func TestComputePositions_InvalidMapProfile(t *testing.T) {
	bad := model.DefaultMapProfile
	bad.Extent = 0
	_, err := ComputePositions(nil, "P1", WithMapProfile(bad))
	if err == nil {
		t.Fatal("expected error for zero extent")
	}
}

// ---- normalization ----

func TestNormalize_Endpoints(t *testing.T) {
	rows := Normalize([]model.PositionRow{{X: 335, Y: 15035}}, model.DefaultMapProfile)
	if rows[0].X != 10 {
		t.Errorf("normalized(335): want exactly 10, got %v", rows[0].X)
	}
	if rows[0].Y != 810 {
		t.Errorf("normalized(15035): want exactly 810, got %v", rows[0].Y)
	}
}

func TestNormalize_PreservesOrderAndSpacing(t *testing.T) {
	raw := []float64{0, 335, 1000, 2000, 3000, 14000}
	in := make([]model.PositionRow, len(raw))
	for i, v := range raw {
		in[i] = model.PositionRow{X: v, Y: v}
	}
	out := Normalize(in, model.DefaultMapProfile)

	scale := model.DefaultMapProfile.Canvas / model.DefaultMapProfile.Extent
	for i := 1; i < len(out); i++ {
		if out[i].X <= out[i-1].X {
			t.Errorf("order not preserved at %d: %v <= %v", i, out[i].X, out[i-1].X)
		}
		gotGap := out[i].X - out[i-1].X
		wantGap := (raw[i] - raw[i-1]) * scale
		if diff := gotGap - wantGap; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("spacing at %d: got %v, want %v", i, gotGap, wantGap)
		}
	}
	if in[2].X != 1000 {
		t.Error("Normalize must not modify its input")
	}
}

func TestComputePositions_CustomMapProfile(t *testing.T) {
	profile := model.MapProfile{Name: "aram", Offset: 0, Extent: 13000, Canvas: 400, Margin: 0}
	tl := makeTimeline("M1",
		[]model.Node{rosterEntry(1, "P1")},
		frame(60000, field("1", snapshot(6500, 13000))),
	)
	rows, err := ComputePositions([]model.Timeline{tl}, "P1", WithMapProfile(profile))
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	if len(rows) != 1 || rows[0].X != 200 || rows[0].Y != 400 {
		t.Errorf("expected (200, 400), got %+v", rows)
	}
}
