package discovery

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/wendlabs/wend/internal/tracker"
	"github.com/wendlabs/wend/internal/workflow"
)

// fakeTracker simulates a record system with a fixed workflow. It enforces
// sequencing the way a real system would: applying a transition that is not
// available from the record's current state fails.
type fakeTracker struct {
	state  string
	typ    string
	typeID string
	edges  map[string][]workflow.Transition

	calls   []string
	applied []workflow.Transition
	failOn  string // transition ID that always fails
}

func (f *fakeTracker) Name() string { return "fake" }

func (f *fakeTracker) Init(ctx context.Context, cfg *tracker.Config) error { return nil }

func (f *fakeTracker) Validate() error { return nil }

func (f *fakeTracker) Close() error { return nil }

func (f *fakeTracker) FetchState(ctx context.Context, key string) (*tracker.RecordState, error) {
	f.calls = append(f.calls, "fetch")
	return &tracker.RecordState{Type: f.typ, TypeID: f.typeID, State: f.state}, nil
}

func (f *fakeTracker) ListTransitions(ctx context.Context, key string) ([]workflow.Transition, error) {
	f.calls = append(f.calls, "list:"+f.state)
	return f.edges[f.state], nil
}

func (f *fakeTracker) ApplyTransition(ctx context.Context, key string, t workflow.Transition) error {
	if t.ID == f.failOn {
		return fmt.Errorf("transition %s rejected", t.ID)
	}
	for _, avail := range f.edges[f.state] {
		if avail.ID == t.ID {
			f.calls = append(f.calls, "apply:"+t.Name)
			f.state = t.To
			f.applied = append(f.applied, t)
			return nil
		}
	}
	return fmt.Errorf("transition %s not available in %s", t.ID, f.state)
}

func (f *fakeTracker) AddComment(ctx context.Context, key, text string) error {
	f.calls = append(f.calls, "comment")
	return nil
}

// reviewWorkflow is a four-state workflow with a branch and a loop back.
// Done is terminal.
func reviewWorkflow() map[string][]workflow.Transition {
	return map[string][]workflow.Transition{
		"Open": {
			{ID: "11", Name: "start", To: "InProgress"},
		},
		"InProgress": {
			{ID: "21", Name: "review", To: "Waiting"},
			{ID: "22", Name: "back", To: "Open"},
		},
		"Waiting": {
			{ID: "31", Name: "approve", To: "Done"},
		},
		"Done": {},
	}
}

func TestDiscoverFullWalk(t *testing.T) {
	fake := &fakeTracker{state: "Open", typ: "Task", typeID: "10001", edges: reviewWorkflow()}
	engine := NewEngine(fake)

	graph, err := engine.Discover(context.Background(), "PROBE-1")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	for state, want := range reviewWorkflow() {
		if !graph.HasState(state) {
			t.Errorf("graph missing state %s", state)
			continue
		}
		got := graph.TransitionsFrom(state)
		if len(got) != len(want) {
			t.Errorf("TransitionsFrom(%s) has %d transitions, want %d", state, len(got), len(want))
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("TransitionsFrom(%s)[%d] = %+v, want %+v", state, i, got[i], want[i])
			}
		}
	}

	if graph.RecordType != "Task" {
		t.Errorf("RecordType = %q, want %q", graph.RecordType, "Task")
	}
	if graph.RecordTypeID != "10001" {
		t.Errorf("RecordTypeID = %q, want %q", graph.RecordTypeID, "10001")
	}
	if graph.DiscoveredFrom != "PROBE-1" {
		t.Errorf("DiscoveredFrom = %q, want %q", graph.DiscoveredFrom, "PROBE-1")
	}
	if graph.DiscoveredAt.IsZero() {
		t.Error("DiscoveredAt should be set")
	}
}

func TestDiscoverRecordsSeedBeforeMoving(t *testing.T) {
	fake := &fakeTracker{state: "Open", typ: "Task", typeID: "10001", edges: reviewWorkflow()}
	engine := NewEngine(fake)

	if _, err := engine.Discover(context.Background(), "PROBE-1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	// The seed state's transitions are listed before any live move.
	want := []string{"fetch", "list:Open", "apply:start"}
	if len(fake.calls) < len(want) {
		t.Fatalf("calls = %v, want prefix %v", fake.calls, want)
	}
	for i, w := range want {
		if fake.calls[i] != w {
			t.Errorf("calls[%d] = %q, want %q", i, fake.calls[i], w)
		}
	}
}

func TestDiscoverWarnsWhenOriginUnreachable(t *testing.T) {
	// Done is terminal, so once the walk ends there the probe cannot come
	// back to Open.
	fake := &fakeTracker{state: "Open", typ: "Task", typeID: "10001", edges: reviewWorkflow()}
	engine := NewEngine(fake)
	var warnings []string
	engine.OnWarning = func(msg string) { warnings = append(warnings, msg) }

	if _, err := engine.Discover(context.Background(), "PROBE-1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if fake.state != "Done" {
		t.Errorf("probe state = %q, want %q (stranded at terminal)", fake.state, "Done")
	}
	if len(warnings) == 0 {
		t.Error("expected an OnWarning for the failed return to origin")
	}
}

func TestDiscoverReturnsToOrigin(t *testing.T) {
	edges := reviewWorkflow()
	edges["Done"] = []workflow.Transition{{ID: "41", Name: "reopen", To: "Open"}}

	fake := &fakeTracker{state: "Open", typ: "Task", typeID: "10001", edges: edges}
	engine := NewEngine(fake)

	if _, err := engine.Discover(context.Background(), "PROBE-1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if fake.state != "Open" {
		t.Errorf("probe state = %q, want %q (returned to origin)", fake.state, "Open")
	}
}

func TestDiscoverStuck(t *testing.T) {
	// Open fans out to A and B, and A is a trap: once the probe moves there
	// it can never reach B.
	edges := map[string][]workflow.Transition{
		"Open": {
			{ID: "1", Name: "toA", To: "A"},
			{ID: "2", Name: "toB", To: "B"},
		},
		"A": {},
		"B": {},
	}
	fake := &fakeTracker{state: "Open", typ: "Task", typeID: "10001", edges: edges}
	engine := NewEngine(fake)

	_, err := engine.Discover(context.Background(), "PROBE-1")
	if err == nil {
		t.Fatal("Discover() error = nil, want IncompleteError")
	}

	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("Discover() error = %T, want *IncompleteError", err)
	}
	if incomplete.StuckAt != "A" {
		t.Errorf("StuckAt = %q, want %q", incomplete.StuckAt, "A")
	}
	if incomplete.Partial == nil {
		t.Fatal("Partial graph missing")
	}
	if !incomplete.Partial.HasState("Open") || !incomplete.Partial.HasState("A") {
		t.Errorf("Partial should contain the explored states, got %v", incomplete.Partial.AllStates())
	}
	if incomplete.Partial.HasState("B") {
		t.Error("Partial should not have explored B")
	}
}

func TestDiscoverLiveFailureAborts(t *testing.T) {
	fake := &fakeTracker{state: "Open", typ: "Task", typeID: "10001", edges: reviewWorkflow(), failOn: "21"}
	engine := NewEngine(fake)

	_, err := engine.Discover(context.Background(), "PROBE-1")
	if err == nil {
		t.Fatal("Discover() error = nil, want apply failure")
	}
	var incomplete *IncompleteError
	if errors.As(err, &incomplete) {
		t.Errorf("live failure should not be an IncompleteError: %v", err)
	}
}

func TestDiscoverParkedStateReachedLater(t *testing.T) {
	// B is dequeued while the probe sits in A with no known way back, so the
	// walk parks it. Exploring A2 records the edge to Open, and the retry
	// reaches B through a two-step drive.
	edges := map[string][]workflow.Transition{
		"Open": {
			{ID: "1", Name: "toA", To: "A"},
			{ID: "2", Name: "toB", To: "B"},
		},
		"A": {
			{ID: "3", Name: "deeper", To: "A2"},
		},
		"A2": {
			{ID: "4", Name: "back", To: "Open"},
		},
		"B": {},
	}
	fake := &fakeTracker{state: "Open", typ: "Task", typeID: "10001", edges: edges}
	engine := NewEngine(fake)

	graph, err := engine.Discover(context.Background(), "PROBE-1")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	for _, state := range []string{"Open", "A", "A2", "B"} {
		if !graph.HasState(state) {
			t.Errorf("graph missing state %s", state)
		}
	}

	var names []string
	for _, tr := range fake.applied {
		names = append(names, tr.Name)
	}
	want := []string{"toA", "deeper", "back", "toB"}
	if len(names) != len(want) {
		t.Fatalf("applied = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("applied[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
