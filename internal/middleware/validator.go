package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidateTicketKey validates Jira issue key format (e.g. PROJ-123)
func ValidateTicketKey(key string) error {
	if key == "" {
		return fmt.Errorf("issue key cannot be empty")
	}

	pattern := `^[A-Z][A-Z0-9]*-\d+$`
	matched, _ := regexp.MatchString(pattern, key)
	if !matched {
		return fmt.Errorf("invalid issue key format: %s (expected e.g. PROJ-123)", key)
	}

	return nil
}

// ValidateOrgSlug validates a Sentry organization slug
func ValidateOrgSlug(org string) error {
	if org == "" {
		return nil // Optional field
	}

	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, org)
	if !matched {
		return fmt.Errorf("invalid organization slug (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateIssueID validates a Sentry issue id. Numeric ids are the
// common case but self-hosted setups hand out word codes too.
func ValidateIssueID(id string) error {
	if id == "" {
		return nil // Optional field
	}

	pattern := `^[a-zA-Z0-9-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return fmt.Errorf("invalid issue id format")
	}

	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidatePage validates pagination page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1 // default
	}
	return page
}

// ValidatePageSize validates pagination page size
func ValidatePageSize(size int) int {
	if size <= 0 {
		return 20 // default
	}
	if size > 100 {
		return 100 // max page size
	}
	return size
}
