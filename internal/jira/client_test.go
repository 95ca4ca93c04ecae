package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestGetIssue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("method = %q, want GET", r.Method)
		}
		if r.URL.Path != "/rest/api/2/issue/PROJ-123" {
			t.Errorf("path = %q, want /rest/api/2/issue/PROJ-123", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != "status,issuetype" {
			t.Errorf("fields = %q, want status,issuetype", got)
		}
		fmt.Fprint(w, `{
			"id": "10001",
			"key": "PROJ-123",
			"fields": {
				"status": {"id": "3", "name": "In Progress"},
				"issuetype": {"id": "10001", "name": "Task"}
			}
		}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-token")
	issue, err := client.GetIssue(context.Background(), "PROJ-123")
	if err != nil {
		t.Fatalf("GetIssue() error = %v", err)
	}
	if issue.Key != "PROJ-123" {
		t.Errorf("Key = %q, want %q", issue.Key, "PROJ-123")
	}
	if issue.Fields.Status == nil || issue.Fields.Status.Name != "In Progress" {
		t.Errorf("Status = %+v, want In Progress", issue.Fields.Status)
	}
	if issue.Fields.IssueType == nil || issue.Fields.IssueType.Name != "Task" {
		t.Errorf("IssueType = %+v, want Task", issue.Fields.IssueType)
	}
}

func TestListTransitions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/issue/PROJ-123/transitions" {
			t.Errorf("path = %q, want transitions endpoint", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"transitions": [
				{"id": "11", "name": "Start Progress", "to": {"id": "3", "name": "In Progress"}},
				{"id": "21", "name": "Close", "to": {"id": "6", "name": "Done"}}
			]
		}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-token")
	transitions, err := client.ListTransitions(context.Background(), "PROJ-123")
	if err != nil {
		t.Fatalf("ListTransitions() error = %v", err)
	}
	if len(transitions) != 2 {
		t.Fatalf("got %d transitions, want 2", len(transitions))
	}
	if transitions[0].ID != "11" || transitions[0].Name != "Start Progress" {
		t.Errorf("transitions[0] = %+v, want Start Progress", transitions[0])
	}
	if transitions[1].To == nil || transitions[1].To.Name != "Done" {
		t.Errorf("transitions[1].To = %+v, want Done", transitions[1].To)
	}
}

func TestDoTransition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %q, want POST", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		var req DoTransitionRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("unmarshal request: %v", err)
		}
		if req.Transition.ID != "21" {
			t.Errorf("transition ID = %q, want %q", req.Transition.ID, "21")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-token")
	if err := client.DoTransition(context.Background(), "PROJ-123", "21"); err != nil {
		t.Fatalf("DoTransition() error = %v", err)
	}
}

func TestAddComment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/issue/PROJ-123/comment" {
			t.Errorf("path = %q, want comment endpoint", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req CommentRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("unmarshal request: %v", err)
		}
		if req.Body != "moved by wend" {
			t.Errorf("comment body = %q, want %q", req.Body, "moved by wend")
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "5000"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-token")
	if err := client.AddComment(context.Background(), "PROJ-123", "moved by wend"); err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
}

func TestGetRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"id": "10001", "key": "PROJ-123", "fields": {}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-token")
	issue, err := client.GetIssue(context.Background(), "PROJ-123")
	if err != nil {
		t.Fatalf("GetIssue() error = %v, want retry to succeed", err)
	}
	if issue.Key != "PROJ-123" {
		t.Errorf("Key = %q, want %q", issue.Key, "PROJ-123")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
}

func TestGetDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errorMessages": ["Issue does not exist"]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-token")
	_, err := client.GetIssue(context.Background(), "PROJ-999")
	if err == nil {
		t.Fatal("GetIssue() error = nil, want 404 failure")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a StatusError", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", se.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1 (no retry on 4xx)", got)
	}
}

func TestGetRetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-token")
	_, err := client.GetIssue(context.Background(), "PROJ-123")
	if err == nil {
		t.Fatal("GetIssue() error = nil, want failure after retries exhausted")
	}
	if got := calls.Load(); got != getRetryMaxAttempts {
		t.Errorf("server saw %d requests, want %d", got, getRetryMaxAttempts)
	}
}

func TestPostNeverRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-token")
	err := client.DoTransition(context.Background(), "PROJ-123", "21")
	if err == nil {
		t.Fatal("DoTransition() error = nil, want 500 failure")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1 (POSTs are never retried)", got)
	}
}

func TestSetAuth(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		username string
		want     string
	}{
		{"cloud with username", "https://company.atlassian.net", "user@example.com", "Basic"},
		{"server with username", "https://jira.internal.example.com", "svc-account", "Basic"},
		{"server with bare token", "https://jira.internal.example.com", "", "Bearer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.url, tt.username, "test-token")
			req, _ := http.NewRequest("GET", tt.url, nil)
			client.setAuth(req)

			auth := req.Header.Get("Authorization")
			if !strings.HasPrefix(auth, tt.want+" ") {
				t.Fatalf("Authorization = %q, want %s scheme", auth, tt.want)
			}
			if tt.want == "Basic" {
				decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
				if err != nil {
					t.Fatalf("decode Basic credentials: %v", err)
				}
				want := tt.username + ":test-token"
				if string(decoded) != want {
					t.Errorf("Basic credentials = %q, want %q", decoded, want)
				}
			}
		})
	}
}

func TestClientRequiresConfig(t *testing.T) {
	client := &Client{URL: "", APIToken: "tok", HTTPClient: http.DefaultClient}
	if _, err := client.GetIssue(context.Background(), "PROJ-1"); err == nil {
		t.Error("GetIssue() with empty URL error = nil, want failure")
	}

	client = &Client{URL: "https://example.atlassian.net", APIToken: "", HTTPClient: http.DefaultClient}
	if _, err := client.GetIssue(context.Background(), "PROJ-1"); err == nil {
		t.Error("GetIssue() with empty token error = nil, want failure")
	}
}

func TestBuildIssueURL(t *testing.T) {
	client := NewClient("https://company.atlassian.net/", "", "tok")
	got := client.BuildIssueURL("PROJ-123")
	want := "https://company.atlassian.net/browse/PROJ-123"
	if got != want {
		t.Errorf("BuildIssueURL() = %q, want %q", got, want)
	}
}
