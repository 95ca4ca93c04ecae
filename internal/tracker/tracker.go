// Package tracker provides a plugin-based architecture for record-system
// integrations. It defines the interface a remote system adapter (Jira,
// etc.) must implement for wend to drive records through their workflow,
// plus a registry the adapters register themselves with at init time.
package tracker

import (
	"context"

	"github.com/wendlabs/wend/internal/workflow"
)

// RecordState is the live snapshot of a record the discovery and
// navigation engines work from.
type RecordState struct {
	// Type is the record type name (e.g. "Task", "Bug").
	Type string

	// TypeID is the remote system's identifier for the type.
	TypeID string

	// State is the record's current workflow state name.
	State string
}

// RecordTracker is the plugin interface every remote-system adapter must
// implement. All live operations take a context; adapters must not retry
// ApplyTransition or AddComment (a failed write is reported, not repeated),
// though they may retry idempotent reads internally.
type RecordTracker interface {
	// Name returns the lowercase identifier for this tracker (e.g. "jira").
	Name() string

	// Init configures the tracker from its Config. Called once before any
	// live operation.
	Init(ctx context.Context, cfg *Config) error

	// Validate checks that the tracker is configured and usable.
	Validate() error

	// FetchState returns the record's type and current workflow state.
	FetchState(ctx context.Context, key string) (*RecordState, error)

	// ListTransitions returns the transitions currently available on the
	// record, in the order the remote system reports them.
	ListTransitions(ctx context.Context, key string) ([]workflow.Transition, error)

	// ApplyTransition executes one transition by its ID, moving the record
	// to t.To. The caller owns sequencing; a failure must surface as-is.
	ApplyTransition(ctx context.Context, key string, t workflow.Transition) error

	// AddComment posts a comment on the record. Callers treat this as
	// best-effort; adapters should not retry it.
	AddComment(ctx context.Context, key, text string) error

	// Close releases any resources held by the tracker.
	Close() error
}

// ErrNotInitialized is returned when a tracker is used before Init is called.
type ErrNotInitialized struct {
	Tracker string
}

func (e *ErrNotInitialized) Error() string {
	return e.Tracker + " tracker not initialized; call Init() first"
}
