package discovery

import (
	"fmt"
	"strings"

	"github.com/wendlabs/wend/internal/workflow"
)

// IncompleteError reports a discovery walk that stopped before visiting
// every known state: the probe record, sitting in StuckAt, had no recorded
// route to the states still pending. Partial carries everything learned up
// to that point for inspection; callers must not persist it.
type IncompleteError struct {
	Partial *workflow.Graph
	StuckAt string
}

func (e *IncompleteError) Error() string {
	var pending []string
	if e.Partial != nil {
		for _, s := range e.Partial.AllStates() {
			if !e.Partial.HasState(s) {
				pending = append(pending, s)
			}
		}
	}
	if len(pending) == 0 {
		return fmt.Sprintf("discovery stuck at %s", e.StuckAt)
	}
	return fmt.Sprintf("discovery stuck at %s: no route to %s", e.StuckAt, strings.Join(pending, ", "))
}
