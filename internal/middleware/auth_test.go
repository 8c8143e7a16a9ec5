package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authedHandler(t *testing.T, gotClient *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotClient = GetClientFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]string{"ci-bot": "key-one", "dashboard": "key-two"}

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
		wantClient string
	}{
		{"bearer format", "/analyze", "Bearer key-one", http.StatusOK, "ci-bot"},
		{"raw key format", "/analyze", "key-two", http.StatusOK, "dashboard"},
		{"missing header", "/analyze", "", http.StatusUnauthorized, ""},
		{"wrong key", "/analyze", "Bearer nope", http.StatusUnauthorized, ""},
		{"blank bearer", "/analyze", "Bearer   ", http.StatusUnauthorized, ""},
		{"health is open", "/health", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotClient string
			handler := APIKeyAuth(keys)(authedHandler(t, &gotClient))

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantClient, gotClient)
		})
	}
}

func TestGetClientFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", GetClientFromContext(req.Context()))
}
