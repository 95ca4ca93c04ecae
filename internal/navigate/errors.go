package navigate

import (
	"fmt"

	"github.com/wendlabs/wend/internal/workflow"
)

// TransitionFailedError reports a live transition that failed partway
// through a path. Steps applied before the failure stay applied: the record
// sits in LastConfirmedState, which is where a manual resume should start,
// not the state the path began from.
type TransitionFailedError struct {
	Step               workflow.Transition
	LastConfirmedState string
	Err                error
}

func (e *TransitionFailedError) Error() string {
	return fmt.Sprintf("transition %s (to %s) failed with record in %s: %v",
		e.Step.Name, e.Step.To, e.LastConfirmedState, e.Err)
}

func (e *TransitionFailedError) Unwrap() error {
	return e.Err
}
