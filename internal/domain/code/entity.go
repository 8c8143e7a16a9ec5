package code

// Snippet is a fragment of repository source attached to an analysis request.
type Snippet struct {
	Path     string
	Content  string
	Language string
}
