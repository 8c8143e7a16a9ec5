package triage

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Models are told to answer with bare JSON but routinely wrap it in markdown
// fences or prose. Take the first brace-delimited block and decode that.
var jsonBlockRe = regexp.MustCompile(`(?s)\{[^}]+\}`)

// DecodeResult parses a model reply into a Result. The priority must be one
// of the four recognized ordinals; anything else is an error so the caller
// can substitute FallbackResult instead of writing garbage to the ticket.
func DecodeResult(raw string) (Result, error) {
	block := jsonBlockRe.FindString(raw)
	if block == "" {
		return Result{}, fmt.Errorf("no JSON object in triage response")
	}

	var payload struct {
		Priority string `json:"priority"`
		IsUrgent bool   `json:"is_urgent"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return Result{}, fmt.Errorf("decode triage response: %w", err)
	}

	p, ok := ParsePriority(payload.Priority)
	if !ok {
		return Result{}, fmt.Errorf("unrecognized priority %q in triage response", payload.Priority)
	}
	reason := payload.Reason
	if reason == "" {
		reason = "Unable to determine"
	}
	return Result{Priority: p, IsUrgent: payload.IsUrgent, Reason: reason}, nil
}

// FallbackResult is used whenever triage could not produce a usable
// judgement. Medium keeps the ticket visible without paging anyone.
func FallbackResult() Result {
	return Result{
		Priority: PriorityMedium,
		IsUrgent: false,
		Reason:   "Auto-assigned: unable to parse triage response",
	}
}

// DecodeAnalysis parses a model reply into an Analysis. Individual missing
// fields get neutral defaults; only a structurally unusable reply is an
// error.
func DecodeAnalysis(raw string) (Analysis, error) {
	block := jsonBlockRe.FindString(raw)
	if block == "" {
		return Analysis{}, fmt.Errorf("no JSON object in analysis response")
	}

	var payload struct {
		RootCause     string `json:"root_cause"`
		AffectedFile  string `json:"affected_file"`
		FixSuggestion string `json:"fix_suggestion"`
		Confidence    string `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis response: %w", err)
	}

	if payload.RootCause == "" {
		payload.RootCause = "Unable to determine"
	}
	if payload.AffectedFile == "" {
		payload.AffectedFile = "unknown"
	}
	if payload.FixSuggestion == "" {
		payload.FixSuggestion = "Review stack trace manually"
	}
	return Analysis{
		RootCause:     payload.RootCause,
		AffectedFile:  payload.AffectedFile,
		FixSuggestion: payload.FixSuggestion,
		Confidence:    ParseConfidence(payload.Confidence),
	}, nil
}

// FallbackAnalysis is used whenever analysis could not produce a usable
// judgement. The culprit stands in for the affected file, pointing a human
// at the right neighbourhood.
func FallbackAnalysis(culprit string) Analysis {
	return Analysis{
		RootCause:     "Unable to determine root cause automatically",
		AffectedFile:  culprit,
		FixSuggestion: "Manual review required",
		Confidence:    ConfidenceLow,
	}
}
