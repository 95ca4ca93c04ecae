package workflow

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
)

// Rendering is a pure projection of the states map. Nothing here mutates
// the graph or talks to the live system; styling (color, bolding) is the
// caller's concern.

// ToTable renders the graph as an aligned text table, one row per
// transition, states sorted by name with their recorded transition order
// preserved. Explored states with no way out show "(none)"; states only
// ever seen as a destination show "(unexplored)".
func (g *Graph) ToTable() string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tACTION\tTO\tID")

	explored := make(map[string]bool, len(g.States))
	for name := range g.States {
		explored[name] = true
	}
	for _, state := range g.AllStates() {
		if !explored[state] {
			fmt.Fprintf(w, "%s\t(unexplored)\t\t\n", state)
			continue
		}
		ts := g.TransitionsFrom(state)
		if len(ts) == 0 {
			fmt.Fprintf(w, "%s\t(none)\t\t\n", state)
			continue
		}
		for _, t := range ts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", state, t.Name, t.To, t.ID)
		}
	}
	w.Flush()
	return buf.String()
}

// ToASCII renders the graph as layered boxes with their outgoing
// transitions listed underneath. Layers follow hop distance from the
// graph's entry states (states no transition points at); fully cyclic
// graphs fall back to the first state by name.
func (g *Graph) ToASCII() string {
	all := g.AllStates()
	if len(all) == 0 {
		return "(empty graph)\n"
	}

	layers := g.layerize(all)

	width := 0
	for _, s := range all {
		if len(s) > width {
			width = len(s)
		}
	}

	var b strings.Builder
	b.WriteString("● explored   ○ seen as destination only\n\n")

	transitions := 0
	for _, layer := range layers {
		for _, state := range layer {
			icon := "●"
			if !g.HasState(state) {
				icon = "○"
			}
			inner := fmt.Sprintf(" %s %-*s ", icon, width, state)
			bar := strings.Repeat("─", len([]rune(inner)))
			b.WriteString("┌" + bar + "┐\n")
			b.WriteString("│" + inner + "│\n")
			b.WriteString("└" + bar + "┘\n")

			ts := g.TransitionsFrom(state)
			for i, t := range ts {
				branch := "├─"
				if i == len(ts)-1 {
					branch = "└─"
				}
				fmt.Fprintf(&b, "   %s %s → %s\n", branch, t.Name, t.To)
			}
			transitions += len(ts)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d states, %d transitions\n", len(all), transitions)
	return b.String()
}

// ToDOT renders the graph in Graphviz DOT format. Output can be piped to
// graphviz: wend show -f dot TYPE | dot -Tsvg > workflow.svg
func (g *Graph) ToDOT() string {
	var b strings.Builder
	b.WriteString("digraph wend {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=11];\n")
	b.WriteString("  edge [color=\"#666666\"];\n\n")

	for _, state := range g.AllStates() {
		fill := "#e8f4fd"
		switch {
		case !g.HasState(state):
			fill = "#e2e3e5"
		case len(g.TransitionsFrom(state)) == 0:
			fill = "#d4edda"
		}
		fmt.Fprintf(&b, "  \"%s\" [fillcolor=\"%s\"];\n", dotEscape(state), fill)
	}
	b.WriteString("\n")
	for _, state := range sortedStateKeys(g.States) {
		for _, t := range g.States[state] {
			fmt.Fprintf(&b, "  \"%s\" -> \"%s\" [label=\"%s\"];\n",
				dotEscape(state), dotEscape(t.To), dotEscape(t.Name))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// layerize assigns every state a layer by breadth-first hop distance from
// the entry states. States unreachable from any entry (disconnected
// cycles) land together in one trailing layer, sorted.
func (g *Graph) layerize(all []string) [][]string {
	indegree := make(map[string]int, len(all))
	for _, s := range all {
		indegree[s] = 0
	}
	for _, ts := range g.States {
		for _, t := range ts {
			indegree[t.To]++
		}
	}
	var roots []string
	for _, s := range all {
		if indegree[s] == 0 {
			roots = append(roots, s)
		}
	}
	if len(roots) == 0 {
		// Fully cyclic graph. Start from the first state by name that can
		// go somewhere, so sinks render last.
		for _, s := range all {
			if len(g.TransitionsFrom(s)) > 0 {
				roots = []string{s}
				break
			}
		}
		if len(roots) == 0 {
			roots = []string{all[0]}
		}
	}

	assigned := make(map[string]bool, len(all))
	var layers [][]string
	frontier := roots
	for len(frontier) > 0 {
		sort.Strings(frontier)
		layers = append(layers, frontier)
		var next []string
		queued := make(map[string]bool)
		for _, s := range frontier {
			assigned[s] = true
		}
		for _, s := range frontier {
			for _, t := range g.TransitionsFrom(s) {
				if !assigned[t.To] && !queued[t.To] {
					queued[t.To] = true
					next = append(next, t.To)
				}
			}
		}
		frontier = next
	}

	var rest []string
	for _, s := range all {
		if !assigned[s] {
			rest = append(rest, s)
		}
	}
	if len(rest) > 0 {
		layers = append(layers, rest)
	}
	return layers
}

func sortedStateKeys(states map[string][]Transition) []string {
	keys := make([]string, 0, len(states))
	for k := range states {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dotEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(s)
}
