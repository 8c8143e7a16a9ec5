package code

import "context"

// Source fetches file contents from a code host. Implementations are
// best-effort: files that cannot be read are skipped, not errored.
type Source interface {
	Fetch(ctx context.Context, paths []string) ([]Snippet, error)
}
