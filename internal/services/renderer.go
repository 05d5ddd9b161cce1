package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"
	"jira-docgen/internal/models"

	"github.com/yuin/goldmark"
)

const descriptionPreviewChars = 500

// fileRenderer serializes a document model to a timestamped file under
// the output directory. Markdown is the native format; the html format
// runs the same markdown through goldmark.
type fileRenderer struct {
	directory string
	format    string
}

func NewRenderer(config *OutputConfig) interfaces.Renderer {
	return &fileRenderer{
		directory: config.Directory,
		format:    config.Format,
	}
}

func (r *fileRenderer) Render(doc *models.Document) (string, error) {
	if err := os.MkdirAll(r.directory, 0755); err != nil {
		return "", WrapError(err, ErrorTypeRender, "OUTPUT_DIR", "failed to create output directory")
	}

	markdown := renderMarkdown(doc)

	ext := "md"
	content := markdown
	if r.format == "html" {
		var err error
		content, err = markdownToHTML(doc.Title, markdown)
		if err != nil {
			return "", WrapError(err, ErrorTypeRender, "HTML_CONVERT", "failed to convert document to HTML")
		}
		ext = "html"
	}

	filename := fmt.Sprintf("%s_%s_%s.%s", doc.Kind, doc.ProjectKey, doc.GeneratedAt.Format("20060102_150405"), ext)
	path := filepath.Join(r.directory, filename)

	// Write-then-rename so a failed run leaves no partial report.
	tmp, err := os.CreateTemp(r.directory, filename+".tmp")
	if err != nil {
		return "", WrapError(err, ErrorTypeRender, "WRITE_FAILED", "failed to create report file")
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", WrapError(err, ErrorTypeRender, "WRITE_FAILED", "failed to write report file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", WrapError(err, ErrorTypeRender, "WRITE_FAILED", "failed to close report file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", WrapError(err, ErrorTypeRender, "WRITE_FAILED", "failed to finalize report file")
	}

	return path, nil
}

func renderMarkdown(doc *models.Document) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))
	b.WriteString(fmt.Sprintf("*Generated on %s*\n\n", doc.GeneratedAt.Format("2006-01-02 15:04")))

	if doc.Introduction != "" {
		b.WriteString("## Introduction\n\n")
		b.WriteString(doc.Introduction)
		b.WriteString("\n\n")
	}

	if doc.ExecutiveSummary != "" {
		b.WriteString("## Executive Summary\n\n")
		b.WriteString(doc.ExecutiveSummary)
		b.WriteString("\n\n")
	}

	for _, section := range doc.Sections {
		switch doc.Kind {
		case models.KindSolutionFAQ:
			renderFAQSection(&b, section)
		default:
			renderDocSection(&b, section)
		}
	}

	return b.String()
}

func renderDocSection(b *strings.Builder, section models.Section) {
	b.WriteString(fmt.Sprintf("## %s\n\n", section.Title))

	for _, ticket := range section.Tickets {
		b.WriteString(fmt.Sprintf("### %s: %s\n\n", ticket.Key, ticket.Summary))
		b.WriteString(fmt.Sprintf("Status: %s\n\n", ticket.Status))

		if ticket.Description != "" {
			b.WriteString(fmt.Sprintf("Description: %s\n\n", previewText(ticket.Description)))
		}

		b.WriteString(fmt.Sprintf("AI Analysis:\n\n%s\n\n", ticket.Analysis))
	}
}

func renderFAQSection(b *strings.Builder, section models.Section) {
	b.WriteString(fmt.Sprintf("## %s Solutions\n\n", section.Title))

	for _, ticket := range section.Tickets {
		b.WriteString(fmt.Sprintf("### Q: %s\n\n", ticket.Summary))

		if ticket.Description != "" {
			b.WriteString(fmt.Sprintf("Context: %s\n\n", previewText(ticket.Description)))
		}

		b.WriteString(fmt.Sprintf("A: %s\n\n", ticket.Solution.Summary))

		if ticket.Solution.Details != "" && ticket.Solution.Details != ticket.Solution.Summary {
			b.WriteString(fmt.Sprintf("Details: %s\n\n", ticket.Solution.Details))
		}

		b.WriteString(fmt.Sprintf("*Reference: %s (Confidence: %s)*\n\n", ticket.Key, ticket.Solution.Confidence))
	}
}

func previewText(s string) string {
	if len(s) > descriptionPreviewChars {
		return s[:descriptionPreviewChars] + "..."
	}
	return s
}

func markdownToHTML(title, markdown string) (string, error) {
	var body strings.Builder
	if err := goldmark.Convert([]byte(markdown), &body); err != nil {
		return "", err
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	page.WriteString(fmt.Sprintf("<meta charset=\"utf-8\">\n<title>%s</title>\n", title))
	page.WriteString("</head>\n<body>\n")
	page.WriteString(body.String())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}
