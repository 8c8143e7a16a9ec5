package tickets

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{
			name: "nil error",
			err:  nil,
			want: Outcome{Status: OutcomeSuccess},
		},
		{
			name: "status error keeps the code",
			err:  &StatusError{Code: 404, Body: "Issue does not exist"},
			want: Outcome{Status: OutcomeError, Code: 404, Error: "unexpected status 404: Issue does not exist"},
		},
		{
			name: "wrapped status error",
			err:  fmt.Errorf("add comment: %w", &StatusError{Code: 403}),
			want: Outcome{Status: OutcomeError, Code: 403, Error: "add comment: unexpected status 403"},
		},
		{
			name: "transport error has no code",
			err:  errors.New("dial tcp: connection refused"),
			want: Outcome{Status: OutcomeError, Error: "dial tcp: connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeOf(tt.err))
		})
	}
}

func TestOutcomeSucceeded(t *testing.T) {
	assert.True(t, Outcome{Status: OutcomeSuccess}.Succeeded())
	assert.False(t, Outcome{Status: OutcomeError, Code: 500}.Succeeded())
}
