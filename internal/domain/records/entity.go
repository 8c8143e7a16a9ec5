package records

import "time"

// RecordID identifier type
type RecordID string

// Record is one completed analysis stored for auditing and retrieval
type Record struct {
	ID             RecordID  `json:"id"`
	TicketKey      string    `json:"ticket_key"`
	SentryOrg      string    `json:"sentry_org,omitempty"`
	SentryIssueID  string    `json:"sentry_issue_id,omitempty"`
	Priority       string    `json:"priority"`
	IsUrgent       bool      `json:"is_urgent"`
	CommentStatus  string    `json:"comment_status"`
	PriorityStatus string    `json:"priority_status"`
	ReportJSON     string    `json:"report"` // full response JSON
	ArchiveURL     string    `json:"archive_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
