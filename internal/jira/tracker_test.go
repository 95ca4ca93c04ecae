package jira

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wendlabs/wend/internal/tracker"
	"github.com/wendlabs/wend/internal/workflow"
)

func TestRegistered(t *testing.T) {
	tr, err := tracker.New("jira")
	if err != nil {
		t.Fatalf("tracker.New(jira) error = %v", err)
	}
	if tr.Name() != "jira" {
		t.Errorf("Name() = %q, want %q", tr.Name(), "jira")
	}
}

func TestInitRequiresConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]string
	}{
		{"missing url", map[string]string{"api_token": "tok"}},
		{"missing api_token", map[string]string{"url": "https://company.atlassian.net"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Tracker{}
			cfg := tracker.NewConfig("jira", tt.settings)
			if err := tr.Init(context.Background(), cfg); err == nil {
				t.Error("Init() error = nil, want missing-config failure")
			}
		})
	}
}

func TestValidateBeforeInit(t *testing.T) {
	tr := &Tracker{}
	err := tr.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want ErrNotInitialized")
	}
	var notInit *tracker.ErrNotInitialized
	if !errors.As(err, &notInit) {
		t.Fatalf("Validate() error = %T, want *tracker.ErrNotInitialized", err)
	}
	if notInit.Tracker != "jira" {
		t.Errorf("Tracker = %q, want %q", notInit.Tracker, "jira")
	}
}

func TestFetchState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": "10001",
			"key": "PROJ-7",
			"fields": {
				"status": {"id": "10000", "name": "Backlog"},
				"issuetype": {"id": "10002", "name": "Story"}
			}
		}`)
	}))
	defer srv.Close()

	tr := newTestTracker(t, srv.URL)
	state, err := tr.FetchState(context.Background(), "PROJ-7")
	if err != nil {
		t.Fatalf("FetchState() error = %v", err)
	}
	if state.Type != "Story" {
		t.Errorf("Type = %q, want %q", state.Type, "Story")
	}
	if state.TypeID != "10002" {
		t.Errorf("TypeID = %q, want %q", state.TypeID, "10002")
	}
	if state.State != "Backlog" {
		t.Errorf("State = %q, want %q", state.State, "Backlog")
	}
}

func TestListTransitionsMapsToWorkflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"transitions": [
				{"id": "11", "name": "Start Progress", "to": {"id": "3", "name": "In Progress"}},
				{"id": "99", "name": "Broken", "to": null},
				{"id": "21", "name": "Close", "to": {"id": "6", "name": "Done"}}
			]
		}`)
	}))
	defer srv.Close()

	tr := newTestTracker(t, srv.URL)
	transitions, err := tr.ListTransitions(context.Background(), "PROJ-7")
	if err != nil {
		t.Fatalf("ListTransitions() error = %v", err)
	}

	// The transition with no destination is dropped.
	if len(transitions) != 2 {
		t.Fatalf("got %d transitions, want 2", len(transitions))
	}
	if transitions[0].ID != "11" || transitions[0].To != "In Progress" {
		t.Errorf("transitions[0] = %+v, want Start Progress -> In Progress", transitions[0])
	}
	if transitions[1].Name != "Close" || transitions[1].To != "Done" {
		t.Errorf("transitions[1] = %+v, want Close -> Done", transitions[1])
	}
}

func TestApplyTransitionUsesID(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tr := newTestTracker(t, srv.URL)
	step := workflow.Transition{ID: "31", Name: "Reopen", To: "To Do"}
	if err := tr.ApplyTransition(context.Background(), "PROJ-7", step); err != nil {
		t.Fatalf("ApplyTransition() error = %v", err)
	}
	if gotPath != "/rest/api/2/issue/PROJ-7/transitions" {
		t.Errorf("path = %q, want transitions endpoint", gotPath)
	}
	if gotBody != `{"transition":{"id":"31"}}` {
		t.Errorf("body = %q, want transition ID payload", gotBody)
	}
}

// newTestTracker initializes a jira tracker against a test server.
func newTestTracker(t *testing.T, url string) *Tracker {
	t.Helper()
	tr := &Tracker{}
	cfg := tracker.NewConfig("jira", map[string]string{
		"url":       url,
		"api_token": "test-token",
	})
	if err := tr.Init(context.Background(), cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return tr
}
