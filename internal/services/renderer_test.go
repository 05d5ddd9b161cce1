package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jira-docgen/internal/common"
	"jira-docgen/internal/models"
)

func sampleDocumentationReport() *models.Document {
	return &models.Document{
		Kind:             models.KindDocumentation,
		ProjectKey:       "PROJ",
		Title:            "Project Documentation: PROJ",
		GeneratedAt:      time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC),
		ExecutiveSummary: "all good",
		Sections: []models.Section{
			{
				Title: models.CategoryBugs,
				Tickets: []*models.Ticket{
					{Key: "R-1", Summary: "crash", Status: "Done", Description: "it crashed", Analysis: "fixed by restart"},
				},
			},
		},
	}
}

func TestRender_MarkdownFileNamingAndContent(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(&common.OutputConfig{Directory: dir, Format: "markdown"})

	path, err := renderer.Render(sampleDocumentationReport())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if filepath.Base(path) != "documentation_PROJ_20260829_143005.md" {
		t.Fatalf("unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"# Project Documentation: PROJ",
		"## Executive Summary",
		"all good",
		"## Bugs",
		"### R-1: crash",
		"Status: Done",
		"fixed by restart",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("report missing %q:\n%s", want, content)
		}
	}
}

func TestRender_CreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	renderer := NewRenderer(&common.OutputConfig{Directory: dir, Format: "markdown"})

	if _, err := renderer.Render(sampleDocumentationReport()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("output directory was not created: %v", err)
	}
}

func TestRender_FailureLeavesNoFile(t *testing.T) {
	// Point the output directory at an existing regular file so the
	// renderer cannot create it.
	base := t.TempDir()
	blocked := filepath.Join(base, "output")
	if err := os.WriteFile(blocked, []byte("not a directory"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	renderer := NewRenderer(&common.OutputConfig{Directory: blocked, Format: "markdown"})

	if _, err := renderer.Render(sampleDocumentationReport()); err == nil {
		t.Fatal("expected render error when output directory cannot be created")
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("no report file should exist after a failed render, found %v", entries)
	}
}

func TestRender_FAQLayout(t *testing.T) {
	dir := t.TempDir()
	doc := &models.Document{
		Kind:         models.KindSolutionFAQ,
		ProjectKey:   "PROJ",
		Title:        "Solution FAQ for Project: PROJ",
		GeneratedAt:  time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
		Introduction: "This document contains solutions.",
		Sections: []models.Section{
			{
				Title: "Incident",
				Tickets: []*models.Ticket{
					{
						Key: "F-1", Summary: "service keeps dying", Description: "it dies nightly",
						Solution: &models.Solution{Summary: "Restart service", Details: "use systemctl", Confidence: models.ConfidenceHigh},
					},
				},
			},
		},
	}

	renderer := NewRenderer(&common.OutputConfig{Directory: dir, Format: "markdown"})
	path, err := renderer.Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "solution_faq_PROJ_") {
		t.Fatalf("unexpected file name %s", filepath.Base(path))
	}

	data, _ := os.ReadFile(path)
	content := string(data)

	for _, want := range []string{
		"## Introduction",
		"## Incident Solutions",
		"### Q: service keeps dying",
		"Context: it dies nightly",
		"A: Restart service",
		"Details: use systemctl",
		"*Reference: F-1 (Confidence: high)*",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("faq report missing %q:\n%s", want, content)
		}
	}
}

func TestRender_HTMLFormat(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(&common.OutputConfig{Directory: dir, Format: "html"})

	path, err := renderer.Render(sampleDocumentationReport())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.HasSuffix(path, ".html") {
		t.Fatalf("expected .html extension, got %s", path)
	}

	data, _ := os.ReadFile(path)
	content := string(data)
	if !strings.Contains(content, "<!DOCTYPE html>") {
		t.Fatal("expected a standalone HTML page")
	}
	if !strings.Contains(content, "<h1") || !strings.Contains(content, "Project Documentation: PROJ") {
		t.Fatalf("expected converted headings in HTML:\n%s", content)
	}
}

func TestRender_LongDescriptionPreview(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocumentationReport()
	doc.Sections[0].Tickets[0].Description = strings.Repeat("d", 1200)

	renderer := NewRenderer(&common.OutputConfig{Directory: dir, Format: "markdown"})
	path, err := renderer.Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), strings.Repeat("d", descriptionPreviewChars+1)) {
		t.Fatal("description should be cut to the preview limit")
	}
	if !strings.Contains(string(data), strings.Repeat("d", descriptionPreviewChars)+"...") {
		t.Fatal("preview should end with ellipsis")
	}
}
