// Package jira provides the Jira integration for the tracker framework: a
// REST client for the issue, transitions, and comment endpoints, and an
// adapter that exposes them as a tracker.RecordTracker.
package jira

import (
	"time"
)

// API constants
const (
	DefaultTimeout = 30 * time.Second
)

// Issue represents a Jira issue from the REST API, narrowed to the fields
// workflow navigation needs.
type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"` // e.g., "PROJ-123"
	Self   string `json:"self"`
	Fields Fields `json:"fields"`
}

// Fields contains the issue field values.
type Fields struct {
	Status    *Status    `json:"status"`
	IssueType *IssueType `json:"issuetype"`
}

// Status represents a Jira workflow status.
type Status struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	StatusCategory *StatusCategory `json:"statusCategory"`
}

// StatusCategory represents a Jira status category.
type StatusCategory struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// IssueType represents a Jira issue type.
type IssueType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

// IssueTransition is one entry from the transitions endpoint: the action a
// user could take on the issue right now, and where it leads.
type IssueTransition struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	To   *Status `json:"to"`
}

// TransitionsResponse is the response from GET .../transitions.
type TransitionsResponse struct {
	Transitions []IssueTransition `json:"transitions"`
}

// DoTransitionRequest is the request body for POST .../transitions.
type DoTransitionRequest struct {
	Transition TransitionRef `json:"transition"`
}

// TransitionRef references a transition by ID.
type TransitionRef struct {
	ID string `json:"id"`
}

// CommentRequest is the request body for POST .../comment. The v2 API
// accepts a plain string body; no ADF document is needed.
type CommentRequest struct {
	Body string `json:"body"`
}
