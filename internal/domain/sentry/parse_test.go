package sentry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// snapshot returns an issue mirror in the sync bot's markdown format.
// Tildes stand in for backticks so the fixture can live in a raw string.
func snapshot() string {
	const s = `# Issue BRMS-LOCAL-1Q in **scor-digital-solutions**

**Description**: NoMethodError: undefined method ~[]' for nil:NilClass (NoMethodError)
**Culprit**: Api::V2::Sessions::PdfsController#show
**First Seen**: 2025-12-09T09:09:30.000Z
**Last Seen**: 2025-12-09T09:09:30.000Z
**Occurrences**: 1
**Users Impacted**: 0
**Status**: unresolved
**Platform**: ruby
**URL**: https://scor-digital-solutions.sentry.io/issues/BRMS-LOCAL-1Q

### Error

~~~
NoMethodError: undefined method ~[]' for nil:NilClass (NoMethodError)

      rules = subset['rules'] || []
~~~

**Full Stacktrace:**
~~~
    from app/components/questions_component.rb:22:in ~block in subsets_with_questions~
      rules = subset['rules'] || []
    from app/controllers/api/v2/sessions/pdfs_controller.rb:17:in ~show~
            serve_pdf(session_pdf)
    from app/models/session_pdf.rb:42:in ~create_pdf~
        .print(session.transformed_result(:document), translations)
~~~
`
	return strings.ReplaceAll(s, "~", "`")
}

func TestParseIssueText(t *testing.T) {
	got := ParseIssueText(snapshot())

	want := Issue{
		ShortID:       "BRMS-LOCAL-1Q",
		Title:         "NoMethodError: undefined method `[]' for nil:NilClass (NoMethodError)",
		Culprit:       "Api::V2::Sessions::PdfsController#show",
		Platform:      "ruby",
		Occurrences:   1,
		UsersImpacted: 0,
		FirstSeen:     "2025-12-09T09:09:30.000Z",
		LastSeen:      "2025-12-09T09:09:30.000Z",
		Status:        "unresolved",
		ErrorMessage:  "NoMethodError: undefined method `[]' for nil:NilClass (NoMethodError)\n\n      rules = subset['rules'] || []",
		// TrimSpace on the fenced block costs the first frame its indent.
		Stacktrace: "from app/components/questions_component.rb:22:in `block in subsets_with_questions`\n" +
			"    from app/controllers/api/v2/sessions/pdfs_controller.rb:17:in `show`\n" +
			"    from app/models/session_pdf.rb:42:in `create_pdf`",
		URL: "https://scor-digital-solutions.sentry.io/issues/BRMS-LOCAL-1Q",
	}
	assert.Equal(t, want, got)
}

func TestParseIssueTextDefaults(t *testing.T) {
	got := ParseIssueText("nothing recognizable here")

	want := Issue{
		ShortID:  "UNKNOWN",
		Title:    "Unknown error",
		Culprit:  "Unknown",
		Platform: "unknown",
		Status:   "unknown",
	}
	assert.Equal(t, want, got)
}

func TestParseIssueTextFrameworkOnlyStack(t *testing.T) {
	var b strings.Builder
	b.WriteString("**Full Stacktrace:**\n```\n")
	for i := 0; i < 20; i++ {
		b.WriteString("    from gems/actionpack/callbacks.rb:99\n")
	}
	b.WriteString("```")

	got := ParseIssueText(b.String())

	lines := strings.Split(got.Stacktrace, "\n")
	assert.Len(t, lines, 15)
	assert.Equal(t, "from gems/actionpack/callbacks.rb:99", lines[0])
	assert.Equal(t, "    from gems/actionpack/callbacks.rb:99", lines[1])
}

func TestStackFiles(t *testing.T) {
	tests := []struct {
		name  string
		trace string
		want  []string
	}{
		{
			name: "ruby style frames",
			trace: "from app/components/questions_component.rb:22:in `block'\n" +
				"from app/controllers/api/v2/sessions/pdfs_controller.rb:17:in `show'\n" +
				"from app/models/session_pdf.rb:42:in `create_pdf'",
			want: []string{
				"app/components/questions_component.rb",
				"app/controllers/api/v2/sessions/pdfs_controller.rb",
				"app/models/session_pdf.rb",
			},
		},
		{
			name:  "python style frames",
			trace: "  File \"src/billing/invoice.py\", line 10, in render\n  File \"src/billing/invoice.py\", line 44, in totals",
			want:  []string{"src/billing/invoice.py"},
		},
		{
			name:  "lib path without prefix word",
			trace: "lib/parser/tokens.go:88 +0x1f",
			want:  []string{"lib/parser/tokens.go"},
		},
		{
			name:  "no application files",
			trace: "at java.base/java.util.HashMap.getNode(HashMap.java:571)",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StackFiles(tt.trace))
		})
	}
}

func TestStackFilesCap(t *testing.T) {
	var frames []string
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		frames = append(frames, "from app/models/"+n+".rb:1")
	}
	got := StackFiles(strings.Join(frames, "\n"))
	assert.Len(t, got, 5)
	assert.Equal(t, "app/models/a.rb", got[0])
	assert.Equal(t, "app/models/e.rb", got[4])
}
