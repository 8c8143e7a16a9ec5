package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/automaton-triage/internal/domain/code"
	"github.com/bryanwahyu/automaton-triage/internal/domain/sentry"
)

// At most this many snippets make it into the analysis prompt, to keep the
// request inside the context window even when the stacktrace names more.
const maxPromptSnippets = 3

// GetAnalysisSystemPrompt provides strict directions and schema for the
// root cause JSON output.
func GetAnalysisSystemPrompt() string {
	return `You are a senior engineer analyzing production errors.

Given error details and optionally code context, respond with EXACTLY this JSON format:
{
  "root_cause": "One sentence: what's causing this error",
  "affected_file": "path/to/file.ext:line",
  "fix_suggestion": "One sentence: what to do to fix it",
  "confidence": "High|Medium|Low"
}

Focus on:
1. Application code, not framework internals
2. The actual cause, not symptoms
3. Actionable fix, not vague suggestions

Be concise. One sentence per field.`
}

// GetAnalysisUserPrompt builds the error description plus optional fenced
// code snippets for the analysis call.
func GetAnalysisUserPrompt(issue sentry.Issue, snippets []code.Snippet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this error:\n\n**Error**: %s\n**Culprit**: %s\n\n", issue.Title, issue.Culprit)
	fmt.Fprintf(&b, "**Stack Trace** (application code):\n```\n%s\n```\n", issue.Stacktrace)

	if len(snippets) > 0 {
		b.WriteString("\n**Relevant Code**:\n")
		for i, sn := range snippets {
			if i == maxPromptSnippets {
				break
			}
			fmt.Fprintf(&b, "\n`%s`:\n```%s\n%s\n```\n", sn.Path, sn.Language, sn.Content)
		}
	}

	b.WriteString("\nRespond with JSON only.")
	return b.String()
}
