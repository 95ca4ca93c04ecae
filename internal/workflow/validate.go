package workflow

import (
	"sort"
	"strings"
)

// DeadEnd describes a state from which no discovered path reaches any
// terminal state. Reachable lists where the record can still go from there,
// sorted, so the operator can judge whether the workflow is genuinely
// stuck or the graph just needs a fresh discovery pass.
type DeadEnd struct {
	State     string   `json:"state"`
	Reachable []string `json:"reachable"`
}

// FindDeadEnds scans a graph for states that can never reach completion.
//
// terminals is the caller's set of "work complete" state names, matched
// case-insensitively. Every known state not itself terminal whose
// reachable set contains no terminal state is reported, sorted by name.
// Pure analysis over an already-built graph; nothing here talks to the
// live system.
func FindDeadEnds(g *Graph, terminals []string) []DeadEnd {
	isTerminal := make(map[string]bool, len(terminals))
	for _, t := range terminals {
		isTerminal[strings.ToLower(t)] = true
	}

	var dead []DeadEnd
	for _, state := range g.AllStates() {
		if isTerminal[strings.ToLower(state)] {
			continue
		}
		reachable := g.ReachableFrom(state)
		found := false
		for r := range reachable {
			if isTerminal[strings.ToLower(r)] {
				found = true
				break
			}
		}
		if !found {
			dead = append(dead, DeadEnd{State: state, Reachable: sortedKeys(reachable)})
		}
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i].State < dead[j].State })
	return dead
}
