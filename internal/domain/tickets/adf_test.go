package tickets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	doc := Document("first line\nsecond line\n\nsecond paragraph")

	require.Equal(t, "doc", doc.Type)
	require.Equal(t, 1, doc.Version)
	require.Len(t, doc.Content, 2)

	para := doc.Content[0]
	assert.Equal(t, "paragraph", para.Type)
	require.Len(t, para.Content, 3)
	assert.Equal(t, ADFNode{Type: "text", Text: "first line"}, para.Content[0])
	assert.Equal(t, ADFNode{Type: "hardBreak"}, para.Content[1])
	assert.Equal(t, ADFNode{Type: "text", Text: "second line"}, para.Content[2])

	require.Len(t, doc.Content[1].Content, 1)
	assert.Equal(t, "second paragraph", doc.Content[1].Content[0].Text)
}

func TestDocumentBlankText(t *testing.T) {
	doc := Document("   ")

	require.Len(t, doc.Content, 1)
	require.Len(t, doc.Content[0].Content, 1)
	assert.Equal(t, "   ", doc.Content[0].Content[0].Text)
}

func TestDocumentJSONShape(t *testing.T) {
	raw, err := json.Marshal(Document("hello"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "doc",
		"version": 1,
		"content": [
			{"type": "paragraph", "content": [{"type": "text", "text": "hello"}]}
		]
	}`, string(raw))
}

func TestPlainText(t *testing.T) {
	adf := map[string]any{
		"type":    "doc",
		"version": float64(1),
		"content": []any{
			map[string]any{
				"type": "paragraph",
				"content": []any{
					map[string]any{"type": "text", "text": "Sentry Issue:"},
					map[string]any{"type": "text", "text": "https://acme.sentry.io/issues/123456/"},
				},
			},
		},
	}

	assert.Equal(t, "Sentry Issue: https://acme.sentry.io/issues/123456/", PlainText(adf))
}

func TestPlainTextString(t *testing.T) {
	assert.Equal(t, "already plain", PlainText("already plain"))
}

func TestPlainTextNil(t *testing.T) {
	assert.Equal(t, "", PlainText(nil))
}

func TestPlainTextRoundTrip(t *testing.T) {
	raw, err := json.Marshal(Document("one\ntwo\n\nthree"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "one two three", PlainText(decoded))
}
