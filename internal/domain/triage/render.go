package triage

import (
	"fmt"
	"strings"
	"time"

	"github.com/bryanwahyu/automaton-triage/internal/domain/sentry"
)

// RenderComment formats the triage and analysis results into the ticket
// comment. Pure function of its inputs: the same issue, results and
// timestamp always render the same bytes. Designed for L2 support, scannable
// in under ten seconds.
func RenderComment(issue sentry.Issue, res Result, an Analysis, analyzedAt time.Time) string {
	var b strings.Builder

	b.WriteString("🤖 Sentry Auto-Analysis")
	if res.IsUrgent {
		b.WriteString(" 🚨 URGENT")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s Priority: %s | %s\n\n", priorityEmoji(res.Priority), res.Priority, res.Reason)

	fmt.Fprintf(&b, "📍 Root Cause: %s\n", an.RootCause)
	fmt.Fprintf(&b, "📁 File: %s\n", an.AffectedFile)
	fmt.Fprintf(&b, "🔧 Fix: %s\n", an.FixSuggestion)
	fmt.Fprintf(&b, "📊 Confidence: %s\n\n", an.Confidence)

	b.WriteString(strings.Repeat("━", 20))
	b.WriteString("\n")
	fmt.Fprintf(&b, "📈 Stats: %d events | %d users\n", issue.Occurrences, issue.UsersImpacted)
	fmt.Fprintf(&b, "🔗 Sentry: %s\n", issue.URL)
	fmt.Fprintf(&b, "⏰ Analyzed: %s", analyzedAt.Format("2006-01-02 15:04"))

	return b.String()
}

func priorityEmoji(p Priority) string {
	switch p {
	case PriorityHighest:
		return "🔴"
	case PriorityHigh:
		return "🟠"
	case PriorityMedium:
		return "🟡"
	case PriorityLow:
		return "🟢"
	}
	return "⚪"
}
