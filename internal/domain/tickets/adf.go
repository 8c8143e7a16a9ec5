package tickets

import "strings"

// ADFNode is one node of an Atlassian Document Format tree. Only the node
// kinds the service emits are modeled: doc, paragraph, text, hardBreak.
type ADFNode struct {
	Type    string    `json:"type"`
	Version int       `json:"version,omitempty"`
	Text    string    `json:"text,omitempty"`
	Content []ADFNode `json:"content,omitempty"`
}

// Document converts plain text into an ADF document. Blank-line separated
// blocks become paragraphs; single newlines become hard breaks within a
// paragraph.
func Document(text string) ADFNode {
	var content []ADFNode
	for _, para := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		var nodes []ADFNode
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			nodes = append(nodes, ADFNode{Type: "text", Text: line})
			if i < len(lines)-1 {
				nodes = append(nodes, ADFNode{Type: "hardBreak"})
			}
		}
		if len(nodes) > 0 {
			content = append(content, ADFNode{Type: "paragraph", Content: nodes})
		}
	}
	if len(content) == 0 {
		content = []ADFNode{{
			Type:    "paragraph",
			Content: []ADFNode{{Type: "text", Text: text}},
		}}
	}
	return ADFNode{Type: "doc", Version: 1, Content: content}
}

// PlainText flattens a decoded ADF tree into its text nodes joined by
// spaces. Plain strings pass through unchanged, so callers can hand it a
// description field without checking its shape first.
func PlainText(node any) string {
	if s, ok := node.(string); ok {
		return s
	}
	var texts []string
	var walk func(any)
	walk = func(n any) {
		switch v := n.(type) {
		case map[string]any:
			if v["type"] == "text" {
				s, _ := v["text"].(string)
				texts = append(texts, s)
			}
			if children, ok := v["content"].([]any); ok {
				for _, child := range children {
					walk(child)
				}
			}
		case []any:
			for _, child := range v {
				walk(child)
			}
		}
	}
	walk(node)
	return strings.Join(texts, " ")
}
