package jira

import (
	"context"

	"github.com/wendlabs/wend/internal/tracker"
	"github.com/wendlabs/wend/internal/workflow"
)

func init() {
	// Register the Jira tracker plugin
	tracker.Register("jira", func() tracker.RecordTracker {
		return &Tracker{}
	})
}

// Tracker implements the tracker.RecordTracker interface for Jira.
type Tracker struct {
	client *Client
	config *tracker.Config
}

// Name returns the tracker identifier.
func (t *Tracker) Name() string {
	return "jira"
}

// Init initializes the tracker with configuration.
func (t *Tracker) Init(ctx context.Context, cfg *tracker.Config) error {
	t.config = cfg

	baseURL, err := cfg.GetRequired("url")
	if err != nil {
		return err
	}

	apiToken, err := cfg.GetRequired("api_token")
	if err != nil {
		return err
	}

	// Username is optional: Server/DC personal access tokens authenticate
	// with the bare token.
	username := cfg.Get("username")

	t.client = NewClient(baseURL, username, apiToken)
	return nil
}

// Validate checks that the tracker is properly configured.
func (t *Tracker) Validate() error {
	if t.client == nil {
		return &tracker.ErrNotInitialized{Tracker: "jira"}
	}
	return nil
}

// Close releases any resources.
func (t *Tracker) Close() error {
	return nil
}

// FetchState retrieves an issue's type and current workflow state.
func (t *Tracker) FetchState(ctx context.Context, key string) (*tracker.RecordState, error) {
	issue, err := t.client.GetIssue(ctx, key)
	if err != nil {
		return nil, err
	}

	state := &tracker.RecordState{}
	if issue.Fields.IssueType != nil {
		state.Type = issue.Fields.IssueType.Name
		state.TypeID = issue.Fields.IssueType.ID
	}
	if issue.Fields.Status != nil {
		state.State = issue.Fields.Status.Name
	}
	return state, nil
}

// ListTransitions returns the transitions available on the issue in its
// current state. Transitions whose destination Jira does not report are
// skipped; a graph edge needs somewhere to point.
func (t *Tracker) ListTransitions(ctx context.Context, key string) ([]workflow.Transition, error) {
	raw, err := t.client.ListTransitions(ctx, key)
	if err != nil {
		return nil, err
	}

	transitions := make([]workflow.Transition, 0, len(raw))
	for _, jt := range raw {
		if jt.To == nil || jt.To.Name == "" {
			continue
		}
		transitions = append(transitions, workflow.Transition{
			ID:   jt.ID,
			Name: jt.Name,
			To:   jt.To.Name,
		})
	}
	return transitions, nil
}

// ApplyTransition executes a single transition on the issue.
func (t *Tracker) ApplyTransition(ctx context.Context, key string, tr workflow.Transition) error {
	return t.client.DoTransition(ctx, key, tr.ID)
}

// AddComment posts a plain-text comment on the issue.
func (t *Tracker) AddComment(ctx context.Context, key, text string) error {
	return t.client.AddComment(ctx, key, text)
}

// Client returns the underlying Jira client for advanced operations.
func (t *Tracker) Client() *Client {
	return t.client
}
