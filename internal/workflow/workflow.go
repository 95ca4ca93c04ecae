// Package workflow models empirically discovered workflow graphs for
// external record systems: named states connected by labeled transitions,
// learned by observation rather than configured statically.
//
// Graphs answer pure, read-only queries (TransitionsFrom, AllStates,
// ReachableFrom, PathTo). Everything that touches a live record lives
// elsewhere; nothing in this package performs I/O.
package workflow

import (
	"sort"
	"strings"
	"time"
)

// Transition is a single labeled edge out of a workflow state. Immutable
// once constructed.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   string `json:"to"`
}

// Graph is the discovered transition graph for one record type.
//
// States is keyed by state name. A transition's destination may be named
// before it is itself a key: the destination is known to exist but its
// outgoing transitions have not been recorded yet. State names are
// case-sensitive keys; PathTo matches its target case-insensitively.
//
// A Graph starts empty at the beginning of discovery and is mutated only
// through AddState. Once loaded from the store it is treated as read-only;
// refresh happens by a fresh discovery pass, never by editing in place.
type Graph struct {
	RecordType     string
	RecordTypeID   string
	DiscoveredFrom string
	DiscoveredAt   time.Time
	States         map[string][]Transition
}

// NewGraph returns an empty graph for the given record type.
func NewGraph(recordType, recordTypeID string) *Graph {
	return &Graph{
		RecordType:   recordType,
		RecordTypeID: recordTypeID,
		States:       make(map[string][]Transition),
	}
}

// AddState records the full outgoing transition list for a state, replacing
// any previous entry. The slice is copied so later caller mutations cannot
// leak into the graph.
func (g *Graph) AddState(name string, transitions []Transition) {
	if g.States == nil {
		g.States = make(map[string][]Transition)
	}
	ts := make([]Transition, len(transitions))
	copy(ts, transitions)
	g.States[name] = ts
}

// HasState reports whether the state's outgoing transitions have been
// recorded. False for states only ever seen as a destination.
func (g *Graph) HasState(name string) bool {
	_, ok := g.States[name]
	return ok
}

// TransitionsFrom returns the recorded outgoing transitions for a state.
// Empty for unknown states and for explored states with no way out.
func (g *Graph) TransitionsFrom(state string) []Transition {
	return g.States[state]
}

// AllStates returns every known state name, sorted: the keys of States plus
// every transition destination, whether or not it has been explored.
func (g *Graph) AllStates() []string {
	seen := make(map[string]bool, len(g.States))
	for name, ts := range g.States {
		seen[name] = true
		for _, t := range ts {
			seen[t.To] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReachableFrom returns the set of states reachable from start in any
// number of hops, including start itself. Plain breadth-first traversal;
// no target matching.
func (g *Graph) ReachableFrom(start string) map[string]bool {
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		for _, t := range g.TransitionsFrom(state) {
			if !visited[t.To] {
				visited[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}
	return visited
}

// PathTo returns the shortest transition sequence from the state named from
// to a fuzzy-matched target. The empty path with a nil error means the
// record is already at the target (from equals to case-insensitively).
//
// The target test accepts a transition when its destination equals to
// case-insensitively, or its destination contains to as a case-insensitive
// substring, or its action label does. The first matching transition in
// breadth-first expansion order wins, which guarantees minimal hop count;
// ties between equal-length paths go to whichever transition appears first
// in its state's recorded list. When two branches both contain the target
// substring the winner is therefore expansion order, so callers presenting
// results should show the matched destination, not echo the query.
//
// When the target is unreachable the returned error is a *PathNotFoundError
// carrying both endpoints and the full set of states reachable from from.
func (g *Graph) PathTo(from, to string) ([]Transition, error) {
	if strings.EqualFold(from, to) {
		return []Transition{}, nil
	}
	target := strings.ToLower(to)
	match := func(t Transition) bool {
		dest := strings.ToLower(t.To)
		return dest == target ||
			strings.Contains(dest, target) ||
			strings.Contains(strings.ToLower(t.Name), target)
	}
	path, visited := g.search(from, match)
	if path == nil {
		return nil, &PathNotFoundError{From: from, To: to, Reachable: sortedKeys(visited)}
	}
	return path, nil
}

// PathToState is the exact-name variant of PathTo used when the destination
// is a known state name rather than operator input: the target test is
// case-insensitive equality on the destination only, never a substring or
// label match. Discovery positioning depends on this to avoid routing to a
// state that merely contains the wanted name.
func (g *Graph) PathToState(from, to string) ([]Transition, error) {
	if strings.EqualFold(from, to) {
		return []Transition{}, nil
	}
	path, visited := g.search(from, func(t Transition) bool {
		return strings.EqualFold(t.To, to)
	})
	if path == nil {
		return nil, &PathNotFoundError{From: from, To: to, Reachable: sortedKeys(visited)}
	}
	return path, nil
}

// search runs the breadth-first walk shared by PathTo and PathToState.
// Returns the accumulated path for the first transition accepted by match,
// or nil plus the visited set when the queue empties without a match.
func (g *Graph) search(from string, match func(Transition) bool) ([]Transition, map[string]bool) {
	type node struct {
		state string
		path  []Transition
	}
	visited := map[string]bool{from: true}
	queue := []node{{state: from}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range g.TransitionsFrom(cur.state) {
			if match(t) {
				path := make([]Transition, len(cur.path), len(cur.path)+1)
				copy(path, cur.path)
				return append(path, t), visited
			}
			if !visited[t.To] {
				visited[t.To] = true
				next := make([]Transition, len(cur.path), len(cur.path)+1)
				copy(next, cur.path)
				queue = append(queue, node{state: t.To, path: append(next, t)})
			}
		}
	}
	return nil, visited
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
