package common

import (
	"strings"

	"golang.org/x/net/html"
)

// LooksLikeHTML reports whether a body string appears to contain markup.
// Jira Server instances return rendered HTML bodies; Cloud returns plain
// text or a document tree.
func LooksLikeHTML(s string) bool {
	open := strings.IndexByte(s, '<')
	if open < 0 {
		return false
	}
	close := strings.IndexByte(s[open:], '>')
	return close > 1
}

// HTMLToText strips markup from a body string, keeping the visible text.
// Block-level elements produce line breaks so comment formatting survives.
// If parsing fails the input is returned unchanged.
func HTMLToText(s string) string {
	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var text strings.Builder

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "br", "p", "div", "li", "tr":
				text.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(node)
	return strings.TrimSpace(text.String())
}

// CleanBody normalizes a free-text body for prompt assembly: HTML is
// reduced to its visible text, everything else passes through trimmed.
func CleanBody(s string) string {
	if LooksLikeHTML(s) {
		return HTMLToText(s)
	}
	return strings.TrimSpace(s)
}
