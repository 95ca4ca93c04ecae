// Package store persists discovered workflow graphs, one per record type,
// in a single JSON document.
//
// The document is loaded wholesale on every call and rewritten wholesale on
// every save via a temp file in the target directory followed by a rename,
// so a half-written file is never observable. There is no cross-process
// locking: two processes saving the same store race and the last writer
// wins.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/wendlabs/wend/internal/workflow"
)

// FormatVersion is the document schema version written to meta.version.
const FormatVersion = 1

// DefaultFileName is the store file name inside a .wend directory.
const DefaultFileName = "workflows.json"

type document struct {
	Meta  meta                 `json:"meta"`
	Types map[string]TypeEntry `json:"types"`
}

type meta struct {
	Version   int     `json:"version"`
	UpdatedAt *string `json:"updatedAt"`
}

// TypeEntry is the persisted form of one record type's workflow graph.
// Exported so output formatters can marshal the exact wire shape; the yaml
// tags keep `--format yaml` field names identical to the JSON document.
type TypeEntry struct {
	ID             string                           `json:"id" yaml:"id"`
	DiscoveredFrom *string                          `json:"discoveredFrom" yaml:"discoveredFrom"`
	DiscoveredAt   *string                          `json:"discoveredAt" yaml:"discoveredAt"`
	States         map[string][]workflow.Transition `json:"states" yaml:"states"`
}

// EntryFromGraph converts a graph to its persisted form.
func EntryFromGraph(g *workflow.Graph) TypeEntry {
	e := TypeEntry{
		ID:     g.RecordTypeID,
		States: make(map[string][]workflow.Transition, len(g.States)),
	}
	for name, ts := range g.States {
		cp := make([]workflow.Transition, len(ts))
		copy(cp, ts)
		e.States[name] = cp
	}
	if g.DiscoveredFrom != "" {
		from := g.DiscoveredFrom
		e.DiscoveredFrom = &from
	}
	if !g.DiscoveredAt.IsZero() {
		at := g.DiscoveredAt.UTC().Format(time.RFC3339)
		e.DiscoveredAt = &at
	}
	return e
}

// Graph reconstructs a fresh in-memory graph from the persisted form.
// Every call returns a new instance; nothing is shared or cached.
func (e TypeEntry) Graph(recordType string) *workflow.Graph {
	g := workflow.NewGraph(recordType, e.ID)
	for name, ts := range e.States {
		g.AddState(name, ts)
	}
	if e.DiscoveredFrom != nil {
		g.DiscoveredFrom = *e.DiscoveredFrom
	}
	if e.DiscoveredAt != nil {
		if at, err := time.Parse(time.RFC3339, *e.DiscoveredAt); err == nil {
			g.DiscoveredAt = at
		}
	}
	return g
}

// Store reads and writes the workflow document at a fixed path. The zero
// value is not usable; construct with New.
type Store struct {
	path string
}

// New returns a store backed by the document at path. The file is created
// on first Save; a missing file reads as an empty store.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the stored graph for a record type. The error wraps
// ErrWorkflowNotFound when the type has never been discovered.
func (s *Store) Get(recordType string) (*workflow.Graph, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	entry, ok := doc.Types[recordType]
	if !ok {
		return nil, &NotFoundError{RecordType: recordType}
	}
	return entry.Graph(recordType), nil
}

// Save replaces the stored entry for the graph's record type and rewrites
// the whole document atomically, bumping meta.updatedAt.
func (s *Store) Save(g *workflow.Graph) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Types[g.RecordType] = EntryFromGraph(g)
	return s.write(doc)
}

// ListTypes returns the record types with a stored graph, sorted.
func (s *Store) ListTypes() ([]string, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Types))
	for name := range doc.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a record type's graph and rewrites the document. Returns
// an ErrWorkflowNotFound-wrapping error when the type is not stored.
func (s *Store) Delete(recordType string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Types[recordType]; !ok {
		return &NotFoundError{RecordType: recordType}
	}
	delete(doc.Types, recordType)
	return s.write(doc)
}

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &document{
			Meta:  meta{Version: FormatVersion},
			Types: make(map[string]TypeEntry),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading workflow store: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing workflow store %s: %w", s.path, err)
	}
	if doc.Meta.Version > FormatVersion {
		return nil, fmt.Errorf("workflow store %s has format version %d, this build understands %d",
			s.path, doc.Meta.Version, FormatVersion)
	}
	if doc.Types == nil {
		doc.Types = make(map[string]TypeEntry)
	}
	return &doc, nil
}

// write rewrites the document atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) write(doc *document) error {
	doc.Meta.Version = FormatVersion
	now := time.Now().UTC().Format(time.RFC3339)
	doc.Meta.UpdatedAt = &now

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding workflow store: %w", err)
	}
	data = append(data, '\n')

	base := filepath.Base(s.path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp store file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing workflow store: %w", err)
	}
	return nil
}
