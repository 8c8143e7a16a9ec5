package jira

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/automaton-triage/internal/domain/tickets"
	"github.com/bryanwahyu/automaton-triage/internal/domain/triage"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "dev@example.com", "token123", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestAddComment(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "dev@example.com", user)
		assert.Equal(t, "token123", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"10001"}`))
	})

	err := c.AddComment(context.Background(), "MAFB-11", "🤖 Sentry Auto-Analysis\n\nall good")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/rest/api/3/issue/MAFB-11/comment", gotPath)

	body, ok := gotBody["body"].(map[string]any)
	require.True(t, ok, "comment body should be an ADF document")
	assert.Equal(t, "doc", body["type"])
	assert.Equal(t, float64(1), body["version"])
	assert.Contains(t, tickets.PlainText(body), "Sentry Auto-Analysis")
}

func TestAddCommentNonSuccessStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorMessages":["Issue does not exist or you do not have permission to see it."]}`))
	})

	err := c.AddComment(context.Background(), "MAFB-404", "hello")
	require.Error(t, err)

	var se *tickets.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, se.Body, "Issue does not exist")
}

func TestSetPriority(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.SetPriority(context.Background(), "MAFB-11", triage.PriorityHighest)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/rest/api/3/issue/MAFB-11", gotPath)

	fields := gotBody["fields"].(map[string]any)
	priority := fields["priority"].(map[string]any)
	assert.Equal(t, "Highest", priority["name"])
}

func TestSetPriorityForbidden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errorMessages":["Field 'priority' cannot be set."]}`))
	})

	err := c.SetPriority(context.Background(), "MAFB-11", triage.PriorityLow)
	require.Error(t, err)

	var se *tickets.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
}

func TestCreateIssue(t *testing.T) {
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/3/issue", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"10500","key":"MAFB-42"}`))
	})

	key, err := c.CreateIssue(context.Background(), tickets.CreateIssueRequest{
		Project:     "MAFB",
		Summary:     "[Sentry] integration test",
		Description: "Sentry Issue: https://acme.sentry.io/issues/12345678/",
		Labels:      []string{"sentry", "auto-triage"},
		Priority:    triage.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, "MAFB-42", key)

	fields := gotBody["fields"].(map[string]any)
	assert.Equal(t, "[Sentry] integration test", fields["summary"])
	assert.Equal(t, "Task", fields["issuetype"].(map[string]any)["name"])
	assert.Equal(t, "MAFB", fields["project"].(map[string]any)["key"])
	assert.Equal(t, []any{"sentry", "auto-triage"}, fields["labels"])
	assert.Contains(t, tickets.PlainText(fields["description"]), "https://acme.sentry.io/issues/12345678/")
}

func TestBrowseURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, c.baseURL+"/browse/MAFB-42", c.BrowseURL("MAFB-42"))
}
