package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTicketKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"standard key", "PROJ-123", false},
		{"key with digits in project", "A1B2-9", false},
		{"empty", "", true},
		{"lowercase project", "proj-123", true},
		{"missing number", "PROJ-", true},
		{"missing dash", "PROJ123", true},
		{"leading digit", "1PROJ-12", true},
		{"trailing junk", "PROJ-12x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTicketKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOrgSlug(t *testing.T) {
	assert.NoError(t, ValidateOrgSlug(""))
	assert.NoError(t, ValidateOrgSlug("acme-corp"))
	assert.NoError(t, ValidateOrgSlug("acme_corp_2"))
	assert.Error(t, ValidateOrgSlug("acme corp"))
	assert.Error(t, ValidateOrgSlug("acme/corp"))
}

func TestValidateIssueID(t *testing.T) {
	assert.NoError(t, ValidateIssueID(""))
	assert.NoError(t, ValidateIssueID("123456"))
	assert.NoError(t, ValidateIssueID("BRMS-LOCAL-1Q"))
	assert.Error(t, ValidateIssueID("123 456"))
	assert.Error(t, ValidateIssueID("abc$def"))
}

func TestValidatePage(t *testing.T) {
	assert.Equal(t, 1, ValidatePage(0))
	assert.Equal(t, 1, ValidatePage(-5))
	assert.Equal(t, 3, ValidatePage(3))
}

func TestValidatePageSize(t *testing.T) {
	assert.Equal(t, 20, ValidatePageSize(0))
	assert.Equal(t, 20, ValidatePageSize(-1))
	assert.Equal(t, 50, ValidatePageSize(50))
	assert.Equal(t, 100, ValidatePageSize(500))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello\x00  "))
	assert.Equal(t, "a\nb", SanitizeString("a\nb"))
	assert.Equal(t, "ab", SanitizeString("a\x01b"))
}
