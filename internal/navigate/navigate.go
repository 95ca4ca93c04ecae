// Package navigate moves a record to a target workflow state in however
// many transitions that takes. It ties the other pieces together: the
// stored graph (discovered on demand when missing), the path search, and
// the live tracker calls that execute each step.
package navigate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wendlabs/wend/internal/discovery"
	"github.com/wendlabs/wend/internal/store"
	"github.com/wendlabs/wend/internal/tracker"
	"github.com/wendlabs/wend/internal/workflow"
)

// EventKind classifies smart-transition progress events.
type EventKind int

const (
	// EventInfo is general progress narration.
	EventInfo EventKind = iota
	// EventApply is emitted just before each live transition.
	EventApply
	// EventWarning is a non-fatal problem on a best-effort surface.
	EventWarning
)

// Event is one progress notification from a smart transition.
type Event struct {
	Kind EventKind

	// Step and Total give the 1-based position in the path for EventApply.
	Step  int
	Total int

	// Transition is the edge being applied for EventApply.
	Transition workflow.Transition

	// Message is always set.
	Message string
}

// Options control a smart transition.
type Options struct {
	// AddTrailComment posts a comment on the record summarizing the state
	// sequence after a fully successful run. Best-effort.
	AddTrailComment bool

	// DryRun computes and returns the path without applying anything.
	DryRun bool

	// OnEvent receives progress notifications (optional).
	OnEvent func(Event)
}

// Result reports what a smart transition did, or would do under DryRun.
// The json tags are the CLI's --json wire shape.
type Result struct {
	RecordKey  string `json:"recordKey"`
	RecordType string `json:"recordType"`

	// From is the record's state when the run started.
	From string `json:"from"`

	// Target is the requested target, verbatim.
	Target string `json:"target"`

	// MatchedState is the state the path actually ends in. The target is
	// fuzzy-matched, so this is how callers see which state won.
	MatchedState string `json:"matchedState"`

	// Path is the computed transition sequence. Empty when the record was
	// already at the target.
	Path []workflow.Transition `json:"path"`

	// Applied counts transitions actually executed. Zero under DryRun.
	Applied int `json:"applied"`

	DryRun bool `json:"dryRun"`

	// Discovered is true when no stored graph existed and one was
	// discovered from this record during the run.
	Discovered bool `json:"discovered"`

	// Commented is true when the trail comment was posted.
	Commented bool `json:"commented"`
}

// SmartTransition moves the record to the target state, discovering the
// workflow first if it has never been mapped. The path is executed one
// transition at a time; a failure partway through stops immediately and
// reports the last state confirmed by a successful step. Applied steps are
// never rolled back. With opts.DryRun the path is computed and returned
// without a single ApplyTransition call.
func SmartTransition(ctx context.Context, tr tracker.RecordTracker, st *store.Store, recordKey, target string, opts Options) (*Result, error) {
	state, err := tr.FetchState(ctx, recordKey)
	if err != nil {
		return nil, fmt.Errorf("fetch record %s: %w", recordKey, err)
	}

	result := &Result{
		RecordKey:  recordKey,
		RecordType: state.Type,
		From:       state.State,
		Target:     target,
		DryRun:     opts.DryRun,
	}

	graph, err := st.Get(state.Type)
	if errors.Is(err, store.ErrWorkflowNotFound) {
		emit(opts, Event{Kind: EventInfo, Message: fmt.Sprintf("No workflow stored for %s; discovering from %s", state.Type, recordKey)})

		graph, err = discoverAndSave(ctx, tr, st, recordKey, opts)
		if err != nil {
			return nil, err
		}
		result.Discovered = true

		// Discovery drives the record around and only returns it to its
		// origin best-effort, so the pre-discovery snapshot may be stale.
		state, err = tr.FetchState(ctx, recordKey)
		if err != nil {
			return nil, fmt.Errorf("fetch record %s after discovery: %w", recordKey, err)
		}
		result.From = state.State
	} else if err != nil {
		return nil, err
	}

	path, err := graph.PathTo(state.State, target)
	if err != nil {
		return nil, err
	}
	result.Path = path

	if len(path) == 0 {
		// Already there.
		result.MatchedState = state.State
		return result, nil
	}
	result.MatchedState = path[len(path)-1].To

	if opts.DryRun {
		return result, nil
	}

	confirmed := state.State
	for i, step := range path {
		emit(opts, Event{
			Kind:       EventApply,
			Step:       i + 1,
			Total:      len(path),
			Transition: step,
			Message:    fmt.Sprintf("Applying %s -> %s", step.Name, step.To),
		})
		if err := tr.ApplyTransition(ctx, recordKey, step); err != nil {
			return nil, &TransitionFailedError{
				Step:               step,
				LastConfirmedState: confirmed,
				Err:                err,
			}
		}
		confirmed = step.To
		result.Applied++
	}

	if opts.AddTrailComment {
		result.Commented = addTrailComment(ctx, tr, recordKey, result.From, path, opts)
	}

	return result, nil
}

// discoverAndSave runs a discovery walk from the record and persists the
// resulting graph, forwarding discovery progress to the caller's events.
func discoverAndSave(ctx context.Context, tr tracker.RecordTracker, st *store.Store, recordKey string, opts Options) (*workflow.Graph, error) {
	engine := discovery.NewEngine(tr)
	engine.OnMessage = func(msg string) {
		emit(opts, Event{Kind: EventInfo, Message: msg})
	}
	engine.OnWarning = func(msg string) {
		emit(opts, Event{Kind: EventWarning, Message: msg})
	}

	graph, err := engine.Discover(ctx, recordKey)
	if err != nil {
		return nil, fmt.Errorf("discover workflow: %w", err)
	}
	if err := st.Save(graph); err != nil {
		return nil, fmt.Errorf("save discovered workflow: %w", err)
	}
	return graph, nil
}

// addTrailComment posts the traversed state sequence as a comment. Failures
// are reported as a warning event and otherwise swallowed.
func addTrailComment(ctx context.Context, tr tracker.RecordTracker, recordKey, from string, path []workflow.Transition, opts Options) bool {
	states := make([]string, 0, len(path)+1)
	states = append(states, from)
	for _, step := range path {
		states = append(states, step.To)
	}
	text := "Moved by wend: " + strings.Join(states, " -> ")

	if err := tr.AddComment(ctx, recordKey, text); err != nil {
		emit(opts, Event{Kind: EventWarning, Message: fmt.Sprintf("Could not add trail comment: %v", err)})
		return false
	}
	return true
}

func emit(opts Options, ev Event) {
	if opts.OnEvent != nil {
		opts.OnEvent(ev)
	}
}
