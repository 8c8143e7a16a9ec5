package triage

import "strings"

// Priority enum, matching the four Jira priority names.
type Priority string

const (
	PriorityLow     Priority = "Low"
	PriorityMedium  Priority = "Medium"
	PriorityHigh    Priority = "High"
	PriorityHighest Priority = "Highest"
)

// ParsePriority maps free-form model output onto the four priorities,
// case-insensitively. Anything else is rejected.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	case "highest":
		return PriorityHighest, true
	}
	return "", false
}

// Confidence enum
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// ParseConfidence clamps free-form model output to the enum; unknown values
// read as Low.
func ParseConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// Result is the quick severity assessment for an issue.
type Result struct {
	Priority Priority `json:"priority"`
	IsUrgent bool     `json:"is_urgent"`
	Reason   string   `json:"reason"`
}

// Analysis is the root cause finding for an issue.
type Analysis struct {
	RootCause     string     `json:"root_cause"`
	AffectedFile  string     `json:"affected_file"`
	FixSuggestion string     `json:"fix_suggestion"`
	Confidence    Confidence `json:"confidence"`
}
