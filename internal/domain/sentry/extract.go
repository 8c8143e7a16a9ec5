package sentry

import "regexp"

// Mirrored tickets embed links like https://acme.sentry.io/issues/82134814/.
// Only numeric ids count: short codes (PROJ-1Q) resolve through Sentry's UI
// search, not the issues API.
var issueURLRe = regexp.MustCompile(`https://([\w-]+)\.sentry\.io/issues/(\d+)`)

// ExtractIssueRef returns the first Sentry issue link found in text.
// The returned URL is normalized to the canonical form with a trailing slash.
func ExtractIssueRef(text string) (IssueRef, bool) {
	m := issueURLRe.FindStringSubmatch(text)
	if m == nil {
		return IssueRef{}, false
	}
	return IssueRef{
		Org:     m[1],
		IssueID: m[2],
		URL:     "https://" + m[1] + ".sentry.io/issues/" + m[2] + "/",
	}, true
}
