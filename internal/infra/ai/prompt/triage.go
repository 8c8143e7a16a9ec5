package prompt

import (
	"fmt"

	"github.com/bryanwahyu/automaton-triage/internal/domain/sentry"
)

// GetTriageSystemPrompt provides strict directions and schema for the
// severity assessment JSON output.
func GetTriageSystemPrompt() string {
	return `You are a quick triage agent for production errors.

Given error data, respond with EXACTLY this JSON format (no markdown, no explanation):
{
  "priority": "Highest|High|Medium|Low",
  "is_urgent": true|false,
  "reason": "One sentence explanation"
}

Priority rules:
- Highest: >100 occurrences OR >10 users OR security/data loss
- High: 10-100 occurrences OR 1-10 users OR critical feature broken
- Medium: <10 occurrences, 0 users, non-critical path
- Low: Single occurrence, no users, edge case

is_urgent = true if: production-breaking, security issue, or data corruption`
}

// GetTriageUserPrompt builds a compact error summary for the triage call.
func GetTriageUserPrompt(issue sentry.Issue) string {
	return fmt.Sprintf(`Triage this error:
- Error: %s
- Occurrences: %d
- Users: %d
- Platform: %s
- Culprit: %s

Respond with JSON only.`,
		issue.Title, issue.Occurrences, issue.UsersImpacted, issue.Platform, issue.Culprit)
}
