// Package discovery learns a workflow graph empirically by driving a live
// probe record through every transition its system will allow. Nothing is
// assumed about the workflow up front; the graph is whatever the walk
// observed.
//
// Discovery is destructive to the probe record's live state: the record is
// moved through the workflow for real. Run it only against a record set
// aside for the purpose. The walk ends with a best-effort drive back to the
// state the record started in.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/wendlabs/wend/internal/tracker"
	"github.com/wendlabs/wend/internal/workflow"
)

// Engine performs a breadth-first walk over a record's workflow, recording
// each state's outgoing transitions as the tracker reports them.
type Engine struct {
	Tracker tracker.RecordTracker

	// Callbacks for UI feedback (optional).
	OnMessage func(msg string)
	OnWarning func(msg string)
}

// NewEngine creates a discovery engine for the given tracker.
func NewEngine(t tracker.RecordTracker) *Engine {
	return &Engine{Tracker: t}
}

// Discover maps the workflow of the probe record's type and returns the
// resulting graph. The record's state at the start of the walk is the
// origin; states are visited breadth-first from there, and each visit is a
// sequence of live transitions positioning the record followed by one live
// listing of what it can do next.
//
// A state with no known route from the record's current position is parked
// and retried after the rest of the queue; listing other states usually
// opens a route. When a full pass adds nothing and parked states remain,
// Discover fails with an *IncompleteError carrying the partial graph;
// callers must not persist it.
//
// Any live-call failure during positioning or listing aborts the walk
// immediately with the record wherever it was. Only the final drive back to
// the origin is best-effort: its failure goes to OnWarning and the graph is
// still returned.
func (e *Engine) Discover(ctx context.Context, key string) (*workflow.Graph, error) {
	seed, err := e.Tracker.FetchState(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch probe record %s: %w", key, err)
	}

	origin := seed.State
	graph := workflow.NewGraph(seed.Type, seed.TypeID)
	graph.DiscoveredFrom = key
	graph.DiscoveredAt = time.Now().UTC()

	e.msg("Discovering %s workflow using %s, starting from %s", seed.Type, key, origin)

	current := origin
	visited := make(map[string]bool)
	queue := []string{origin}

	for len(queue) > 0 {
		progressed := false
		var parked []string

		for len(queue) > 0 {
			state := queue[0]
			queue = queue[1:]
			if visited[state] {
				continue
			}

			if state != current {
				path, err := graph.PathToState(current, state)
				if err != nil {
					// No route there yet. A state listed later may open one.
					parked = append(parked, state)
					continue
				}
				if err := e.drive(ctx, key, path); err != nil {
					return nil, err
				}
				current = state
			}

			transitions, err := e.Tracker.ListTransitions(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("list transitions in %s: %w", state, err)
			}

			graph.AddState(state, transitions)
			visited[state] = true
			progressed = true
			e.msg("Recorded %s: %d transitions", state, len(transitions))

			for _, t := range transitions {
				if !visited[t.To] {
					queue = append(queue, t.To)
				}
			}
		}

		if len(parked) == 0 {
			break
		}
		if !progressed {
			return nil, &IncompleteError{Partial: graph, StuckAt: current}
		}
		queue = parked
	}

	e.returnToOrigin(ctx, key, current, origin, graph)

	return graph, nil
}

// drive applies each transition in order, moving the live record along path.
func (e *Engine) drive(ctx context.Context, key string, path []workflow.Transition) error {
	for _, step := range path {
		e.msg("Applying %s -> %s", step.Name, step.To)
		if err := e.Tracker.ApplyTransition(ctx, key, step); err != nil {
			return fmt.Errorf("apply transition %s (to %s): %w", step.Name, step.To, err)
		}
	}
	return nil
}

// returnToOrigin drives the probe back to the state discovery found it in.
// Terminal origins make this impossible; either way a failure is only a
// warning, never an error.
func (e *Engine) returnToOrigin(ctx context.Context, key, current, origin string, graph *workflow.Graph) {
	if current == origin {
		return
	}
	path, err := graph.PathToState(current, origin)
	if err != nil {
		e.warn("No route from %s back to %s; %s left in %s", current, origin, key, current)
		return
	}
	if err := e.drive(ctx, key, path); err != nil {
		e.warn("Could not return %s to %s: %v", key, origin, err)
	}
}

func (e *Engine) msg(format string, args ...interface{}) {
	if e.OnMessage != nil {
		e.OnMessage(fmt.Sprintf(format, args...))
	}
}

func (e *Engine) warn(format string, args ...interface{}) {
	if e.OnWarning != nil {
		e.OnWarning(fmt.Sprintf(format, args...))
	}
}
