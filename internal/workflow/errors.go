package workflow

import (
	"fmt"
	"strings"
)

// PathNotFoundError reports that no transition sequence connects From to
// To. Reachable holds every state reachable from From (From included),
// sorted, so an operator can see exactly how far the graph extends without
// re-deriving it.
type PathNotFoundError struct {
	From      string
	To        string
	Reachable []string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("no transition path from %q to %q (reachable from %q: %s)",
		e.From, e.To, e.From, strings.Join(e.Reachable, ", "))
}
