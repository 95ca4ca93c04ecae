package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client provides HTTP access to a Jira instance.
//
// Idempotent GETs are retried with exponential backoff on 429 and 5xx
// responses. POSTs (transitions, comments) are never retried: a transition
// that times out may still have been applied, and navigation treats any
// failure as a hard stop rather than risk applying it twice.
type Client struct {
	URL        string
	Username   string
	APIToken   string
	HTTPClient *http.Client
}

// NewClient creates a new Jira client.
func NewClient(url, username, apiToken string) *Client {
	return &Client{
		URL:      strings.TrimSuffix(url, "/"),
		Username: username,
		APIToken: apiToken,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// StatusError is a non-2xx response from the Jira API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jira API returned %d: %s", e.StatusCode, e.Body)
}

// issueFields is the field set requested for navigation: the record's
// current status and its type.
const issueFields = "status,issuetype"

// GetIssue fetches a single Jira issue by key (e.g., "PROJ-123").
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=%s", c.URL, url.PathEscape(key), issueFields)

	body, err := c.doGet(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("get issue %s: %w", key, err)
	}

	var issue Issue
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("parse issue response: %w", err)
	}

	return &issue, nil
}

// ListTransitions fetches the transitions currently available to an issue.
// The set depends on the state the issue is sitting in right now.
func (c *Client) ListTransitions(ctx context.Context, key string) ([]IssueTransition, error) {
	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s/transitions", c.URL, url.PathEscape(key))

	body, err := c.doGet(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("list transitions for %s: %w", key, err)
	}

	var result TransitionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse transitions response: %w", err)
	}

	return result.Transitions, nil
}

// DoTransition executes a transition on an issue by transition ID.
// Jira returns 204 No Content on success. Never retried.
func (c *Client) DoTransition(ctx context.Context, key, transitionID string) error {
	payload := DoTransitionRequest{Transition: TransitionRef{ID: transitionID}}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal transition request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s/transitions", c.URL, url.PathEscape(key))

	if _, err := c.doRequest(ctx, "POST", apiURL, data); err != nil {
		return fmt.Errorf("transition issue %s: %w", key, err)
	}
	return nil
}

// AddComment posts a plain-text comment on an issue. Never retried.
func (c *Client) AddComment(ctx context.Context, key, text string) error {
	data, err := json.Marshal(CommentRequest{Body: text})
	if err != nil {
		return fmt.Errorf("marshal comment request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s/comment", c.URL, url.PathEscape(key))

	if _, err := c.doRequest(ctx, "POST", apiURL, data); err != nil {
		return fmt.Errorf("comment on issue %s: %w", key, err)
	}
	return nil
}

// BuildIssueURL returns the browse URL for an issue key.
func (c *Client) BuildIssueURL(key string) string {
	return c.URL + "/browse/" + key
}

// GET retry configuration. Three attempts total, bounded in elapsed time so
// a rate-limited instance cannot stall a discovery walk indefinitely.
const (
	getRetryMaxAttempts = 3
	getRetryMaxElapsed  = 15 * time.Second
)

func newGetBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = getRetryMaxElapsed
	return backoff.WithMaxRetries(bo, getRetryMaxAttempts-1)
}

// retryableStatus reports whether a response status is worth retrying on an
// idempotent request: rate limiting or a server-side failure.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// doGet executes an authenticated GET with bounded retry. Transport errors
// and retryable statuses are retried; any other failure stops immediately.
func (c *Client) doGet(ctx context.Context, apiURL string) ([]byte, error) {
	var body []byte
	err := backoff.Retry(func() error {
		var err error
		body, err = c.doRequest(ctx, "GET", apiURL, nil)
		if err == nil {
			return nil
		}
		var se *StatusError
		if errors.As(err, &se) && !retryableStatus(se.StatusCode) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(newGetBackoff(), ctx))
	return body, err
}

// doRequest executes an authenticated HTTP request and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, apiURL string, body []byte) ([]byte, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("jira URL not configured")
	}
	if c.APIToken == "" {
		return nil, fmt.Errorf("jira API token not configured")
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "wend/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// Transition and comment POSTs return 204 No Content on success
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}

// setAuth sets the appropriate authentication header on the request.
// Cloud instances (and anything with a username configured) use Basic auth
// with the API token; bare tokens use Bearer for Server/DC PATs.
func (c *Client) setAuth(req *http.Request) {
	isCloud := strings.Contains(c.URL, "atlassian.net")
	if (isCloud || c.Username != "") && c.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.APIToken))
		req.Header.Set("Authorization", "Basic "+auth)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}
}
