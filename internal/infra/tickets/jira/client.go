package jira

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"

	"github.com/bryanwahyu/automaton-triage/internal/domain/tickets"
	"github.com/bryanwahyu/automaton-triage/internal/domain/triage"
)

// Client mutates Jira Cloud issues through the v3 REST API. The calls go
// through go-jira's raw request plumbing because its typed endpoints predate
// ADF comment bodies.
type Client struct {
	client  *jira.Client
	baseURL string
}

// NewClient wires basic auth into the HTTP transport. It performs no
// network calls.
func NewClient(baseURL, email, apiToken string, timeout time.Duration) (*Client, error) {
	tp := jira.BasicAuthTransport{
		Username: email,
		Password: apiToken,
	}
	httpClient := tp.Client()
	httpClient.Timeout = timeout

	client, err := jira.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, fmt.Errorf("create jira client: %w", err)
	}
	return &Client{client: client, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// AddComment posts body as an ADF comment. Jira Cloud answers 201 on
// create; some deployments return 200.
func (c *Client) AddComment(ctx context.Context, issueKey, body string) error {
	payload := map[string]any{"body": tickets.Document(body)}

	req, err := c.client.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("rest/api/3/issue/%s/comment", issueKey), payload)
	if err != nil {
		return fmt.Errorf("build comment request: %w", err)
	}

	resp, err := c.client.Do(req, nil)
	if err != nil {
		return statusError(resp, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &tickets.StatusError{Code: resp.StatusCode, Body: readBody(resp)}
	}
	return nil
}

// SetPriority updates the issue's priority field by name. Jira Cloud
// answers 204 on edit; some deployments return 200.
func (c *Client) SetPriority(ctx context.Context, issueKey string, priority triage.Priority) error {
	payload := map[string]any{
		"fields": map[string]any{
			"priority": map[string]any{"name": string(priority)},
		},
	}

	req, err := c.client.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("rest/api/3/issue/%s", issueKey), payload)
	if err != nil {
		return fmt.Errorf("build priority request: %w", err)
	}

	resp, err := c.client.Do(req, nil)
	if err != nil {
		return statusError(resp, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &tickets.StatusError{Code: resp.StatusCode, Body: readBody(resp)}
	}
	return nil
}

// CreateIssue creates an issue with an ADF description and returns its key.
func (c *Client) CreateIssue(ctx context.Context, r tickets.CreateIssueRequest) (string, error) {
	issueType := r.Type
	if issueType == "" {
		issueType = "Task"
	}
	fields := map[string]any{
		"project":     map[string]any{"key": r.Project},
		"summary":     r.Summary,
		"description": tickets.Document(r.Description),
		"issuetype":   map[string]any{"name": issueType},
	}
	if len(r.Labels) > 0 {
		fields["labels"] = r.Labels
	}
	if r.Priority != "" {
		fields["priority"] = map[string]any{"name": string(r.Priority)}
	}

	req, err := c.client.NewRequestWithContext(ctx, http.MethodPost,
		"rest/api/3/issue", map[string]any{"fields": fields})
	if err != nil {
		return "", fmt.Errorf("build create request: %w", err)
	}

	var created struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	resp, err := c.client.Do(req, &created)
	if err != nil {
		return "", statusError(resp, err)
	}
	if created.Key == "" {
		return "", &tickets.StatusError{Code: resp.StatusCode, Body: "create response had no issue key"}
	}
	return created.Key, nil
}

// BrowseURL returns the human-facing URL for an issue key.
func (c *Client) BrowseURL(issueKey string) string {
	return c.baseURL + "/browse/" + issueKey
}

// statusError converts a failed go-jira call into a StatusError when an
// HTTP response exists; transport errors pass through unchanged. go-jira
// leaves the body unread on non-2xx, so it is still available here.
func statusError(resp *jira.Response, err error) error {
	if resp == nil {
		return err
	}
	defer resp.Body.Close()
	return &tickets.StatusError{Code: resp.StatusCode, Body: readBody(resp)}
}

func readBody(resp *jira.Response) string {
	b, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
