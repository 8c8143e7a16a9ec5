package ai

import (
	"context"

	"github.com/bryanwahyu/automaton-triage/internal/domain/code"
	"github.com/bryanwahyu/automaton-triage/internal/domain/sentry"
	"github.com/bryanwahyu/automaton-triage/internal/domain/triage"
)

// Client is the LLM boundary. Implementations return structured judgements
// and never render prose for end users.
type Client interface {
	// Triage classifies an issue into priority and urgency.
	Triage(ctx context.Context, issue sentry.Issue) (triage.Result, error)
	// Diagnose produces a root-cause analysis, optionally informed by
	// source snippets fetched for the issue's stack files.
	Diagnose(ctx context.Context, issue sentry.Issue, snippets []code.Snippet) (triage.Analysis, error)
}
