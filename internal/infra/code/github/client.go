// Package github fetches stacktrace files through the GitHub Contents API
// so the analysis call can see the application code it is blaming.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"

	"github.com/bryanwahyu/automaton-triage/internal/domain/code"
	"github.com/bryanwahyu/automaton-triage/internal/logging"
)

const (
	maxContextFiles = 3
	maxContentLines = 100
)

var languageByExt = map[string]string{
	"rb":   "ruby",
	"py":   "python",
	"js":   "javascript",
	"ts":   "typescript",
	"java": "java",
	"go":   "go",
}

// Client reads repository files for code context.
type Client struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

// NewClient builds a client for one repository. An empty token means
// unauthenticated access: fine for public repos, subject to low rate limits.
func NewClient(token, owner, repo, branch string, timeout time.Duration) *Client {
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = timeout
	}
	if branch == "" {
		branch = "main"
	}
	return &Client{client: github.NewClient(httpClient), owner: owner, repo: repo, branch: branch}
}

// SetBaseURL points the client at a different API endpoint (GitHub
// Enterprise, or a test server).
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid github api url: %w", err)
	}
	c.client.BaseURL = u
	return nil
}

// Fetch reads the first maxContextFiles paths. Files that cannot be read
// are skipped, matching how much context the analysis can do without.
func (c *Client) Fetch(ctx context.Context, paths []string) ([]code.Snippet, error) {
	limit := maxContextFiles
	if len(paths) < limit {
		limit = len(paths)
	}

	var snippets []code.Snippet
	for _, filePath := range paths[:limit] {
		sn, err := c.fetchFile(ctx, filePath)
		if err != nil {
			logging.Warn("code context fetch skipped", "path", filePath, "error", err)
			continue
		}
		snippets = append(snippets, sn)
	}
	return snippets, nil
}

func (c *Client) fetchFile(ctx context.Context, filePath string) (code.Snippet, error) {
	opts := &github.RepositoryContentGetOptions{Ref: c.branch}
	file, _, _, err := c.client.Repositories.GetContents(ctx, c.owner, c.repo, filePath, opts)
	if err != nil {
		return code.Snippet{}, err
	}
	if file == nil {
		return code.Snippet{}, fmt.Errorf("%s is not a file", filePath)
	}

	content, err := file.GetContent()
	if err != nil {
		return code.Snippet{}, fmt.Errorf("decode content: %w", err)
	}

	return code.Snippet{
		Path:     filePath,
		Content:  truncate(content),
		Language: languageFor(filePath),
	}, nil
}

// truncate keeps the head of the file; whole files blow the prompt budget.
func truncate(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= maxContentLines {
		return content
	}
	return strings.Join(lines[:maxContentLines], "\n") + "\n... (truncated)"
}

func languageFor(filePath string) string {
	ext := strings.TrimPrefix(path.Ext(filePath), ".")
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return ext
}
