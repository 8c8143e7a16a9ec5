package tickets

import (
	"errors"
	"fmt"
)

// Per-mutation outcome statuses.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// StatusError reports a non-2xx reply from the ticket tracker.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Outcome is the terminal record of a single ticket mutation.
type Outcome struct {
	Status string `json:"status"`
	Code   int    `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OutcomeOf folds a mutation error into an Outcome. StatusError keeps its
// HTTP code so callers can tell a 404 from a 500 without parsing text.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return Outcome{Status: OutcomeSuccess}
	}
	out := Outcome{Status: OutcomeError, Error: err.Error()}
	var se *StatusError
	if errors.As(err, &se) {
		out.Code = se.Code
	}
	return out
}

// Succeeded reports whether the mutation went through.
func (o Outcome) Succeeded() bool {
	return o.Status == OutcomeSuccess
}

// UpdateOutcome pairs the two independent mutations performed per analysis.
// One failing never blocks or rolls back the other.
type UpdateOutcome struct {
	Comment  Outcome `json:"comment"`
	Priority Outcome `json:"priority"`
}
