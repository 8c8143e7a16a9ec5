package tickets

import (
	"context"

	"github.com/bryanwahyu/automaton-triage/internal/domain/triage"
)

// CreateIssueRequest describes a ticket to create. Used by the seeding
// flow; the analysis pipeline only mutates existing issues.
type CreateIssueRequest struct {
	Project     string
	Summary     string
	Description string
	Type        string
	Labels      []string
	Priority    triage.Priority
}

// Client mutates issues in the ticket tracker.
type Client interface {
	// AddComment posts a plain-text comment, converted to ADF in transport.
	AddComment(ctx context.Context, issueKey, body string) error
	// SetPriority updates the issue's priority field by name.
	SetPriority(ctx context.Context, issueKey string, priority triage.Priority) error
	// CreateIssue creates a new issue and returns its key.
	CreateIssue(ctx context.Context, req CreateIssueRequest) (string, error)
}
