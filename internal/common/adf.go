package common

import "strings"

// BodyText flattens a Jira body field to plain text. Cloud returns bodies
// as an Atlassian document tree (nested content nodes with text leaves),
// Server returns a plain string, and a missing field arrives as nil.
func BodyText(body interface{}) string {
	switch v := body.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}:
		var text strings.Builder
		flattenDocNode(v, &text)
		return strings.TrimSpace(text.String())
	default:
		return ""
	}
}

func flattenDocNode(node map[string]interface{}, out *strings.Builder) {
	if text, ok := node["text"].(string); ok {
		out.WriteString(text)
	}

	nodeType, _ := node["type"].(string)

	children, ok := node["content"].([]interface{})
	if !ok {
		return
	}
	for _, child := range children {
		childMap, ok := child.(map[string]interface{})
		if !ok {
			continue
		}
		flattenDocNode(childMap, out)
	}

	// Paragraph-level nodes separate their text with line breaks.
	switch nodeType {
	case "paragraph", "heading", "listItem", "codeBlock", "blockquote":
		out.WriteString("\n")
	}
}
