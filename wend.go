// Package wend provides a minimal public API for embedding workflow
// discovery and navigation in other Go programs.
//
// Most integrations should shell out to the wend CLI. This package exports
// only the essential types and functions for programs that want to drive
// discovery or smart transitions against their own RecordTracker
// implementation.
package wend

import (
	"context"

	"github.com/wendlabs/wend/internal/discovery"
	"github.com/wendlabs/wend/internal/navigate"
	"github.com/wendlabs/wend/internal/store"
	"github.com/wendlabs/wend/internal/tracker"
	"github.com/wendlabs/wend/internal/workflow"
)

// Core types for working with workflow graphs
type (
	Graph      = workflow.Graph
	Transition = workflow.Transition
	DeadEnd    = workflow.DeadEnd
)

// Tracker integration types
type (
	RecordTracker = tracker.RecordTracker
	RecordState   = tracker.RecordState
	TrackerConfig = tracker.Config
)

// Store is the JSON workflow store, one graph per record type.
type Store = store.Store

// Smart-transition types
type (
	MoveOptions = navigate.Options
	MoveResult  = navigate.Result
	MoveEvent   = navigate.Event
)

// Move event kinds
const (
	MoveEventInfo    = navigate.EventInfo
	MoveEventApply   = navigate.EventApply
	MoveEventWarning = navigate.EventWarning
)

// NewGraph creates an empty workflow graph for a record type.
func NewGraph(recordType, recordTypeID string) *Graph {
	return workflow.NewGraph(recordType, recordTypeID)
}

// OpenStore opens the workflow store document at path. The file is created
// on first save; a missing file reads as an empty store.
func OpenStore(path string) *Store {
	return store.New(path)
}

// NewTracker creates a registered tracker by name. Adapters register
// themselves at init time, so import the adapter package (for example
// internal/jira via the CLI) or register your own with RegisterTracker.
func NewTracker(name string) (RecordTracker, error) {
	return tracker.New(name)
}

// RegisterTracker adds a tracker factory under a name for NewTracker.
func RegisterTracker(name string, factory func() RecordTracker) {
	tracker.Register(name, factory)
}

// Discover maps the workflow of the probe record's type by driving the
// record through every transition the tracker allows. Destructive to the
// record's live state; use a record set aside for the purpose.
func Discover(ctx context.Context, tr RecordTracker, recordKey string) (*Graph, error) {
	return discovery.NewEngine(tr).Discover(ctx, recordKey)
}

// Move performs a smart transition: fetch the record's state, discover its
// type's workflow if the store has none, compute the path to target, and
// apply it one transition at a time.
func Move(ctx context.Context, tr RecordTracker, st *Store, recordKey, target string, opts MoveOptions) (*MoveResult, error) {
	return navigate.SmartTransition(ctx, tr, st, recordKey, target, opts)
}

// FindDeadEnds reports states in g from which no transition sequence
// reaches any of the terminal states.
func FindDeadEnds(g *Graph, terminals []string) []DeadEnd {
	return workflow.FindDeadEnds(g, terminals)
}
