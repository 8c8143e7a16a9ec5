package sentry

// IssueRef is a reference to a Sentry issue found inside ticket text.
type IssueRef struct {
	Org     string `json:"org"`
	IssueID string `json:"issue_id"`
	URL     string `json:"url"`
}

// Issue is the snapshot a Sentry sync mirrors into a ticket description,
// recovered from its markdown form.
type Issue struct {
	ShortID       string `json:"short_id"`
	Title         string `json:"title"`
	Culprit       string `json:"culprit"`
	Platform      string `json:"platform"`
	Occurrences   int    `json:"occurrences"`
	UsersImpacted int    `json:"users_impacted"`
	FirstSeen     string `json:"first_seen,omitempty"`
	LastSeen      string `json:"last_seen,omitempty"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message,omitempty"`
	Stacktrace    string `json:"stacktrace,omitempty"`
	URL           string `json:"url,omitempty"`
}
