package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentsResponse(t *testing.T, filePath, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"type":     "file",
		"encoding": "base64",
		"name":     filePath,
		"path":     filePath,
		"content":  base64.StdEncoding.EncodeToString([]byte(content)),
	})
	require.NoError(t, err)
	return body
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("", "acme", "shop", "main", 5*time.Second)
	require.NoError(t, c.SetBaseURL(srv.URL))
	return c
}

func TestFetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))

		switch r.URL.Path {
		case "/repos/acme/shop/contents/app/components/questions_component.rb":
			w.Write(contentsResponse(t, "app/components/questions_component.rb", "class QuestionsComponent\nend\n"))
		case "/repos/acme/shop/contents/src/worker.py":
			w.Write(contentsResponse(t, "src/worker.py", "def run():\n    pass\n"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	got, err := c.Fetch(context.Background(), []string{
		"app/components/questions_component.rb",
		"src/worker.py",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "app/components/questions_component.rb", got[0].Path)
	assert.Equal(t, "class QuestionsComponent\nend\n", got[0].Content)
	assert.Equal(t, "ruby", got[0].Language)
	assert.Equal(t, "python", got[1].Language)
}

func TestFetchCapsAtThreeFiles(t *testing.T) {
	var requests int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(contentsResponse(t, "x", "content"))
	})

	got, err := c.Fetch(context.Background(), []string{
		"app/a.rb", "app/b.rb", "app/c.rb", "app/d.rb", "app/e.rb",
	})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 3, requests)
}

func TestFetchSkipsFailingFiles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing.rb") {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.Write(contentsResponse(t, "app/present.rb", "ok"))
	})

	got, err := c.Fetch(context.Background(), []string{"app/missing.rb", "app/present.rb"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "app/present.rb", got[0].Path)
}

func TestFetchTruncatesLongFiles(t *testing.T) {
	var lines []string
	for i := 1; i <= 150; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(contentsResponse(t, "app/long.rb", strings.Join(lines, "\n")))
	})

	got, err := c.Fetch(context.Background(), []string{"app/long.rb"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.True(t, strings.HasSuffix(got[0].Content, "\n... (truncated)"))
	assert.Contains(t, got[0].Content, "line 100")
	assert.NotContains(t, got[0].Content, "line 101")
}

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"app/models/user.rb", "ruby"},
		{"src/worker.py", "python"},
		{"src/app.ts", "typescript"},
		{"cmd/api/main.go", "go"},
		{"lib/legacy.pl", "pl"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, languageFor(tt.path), tt.path)
	}
}
