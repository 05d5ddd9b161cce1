package services

import (
	"errors"
	"strings"
	"testing"

	"jira-docgen/internal/models"
)

func TestAssembleTicketText_ContainsAllFields(t *testing.T) {
	ticket := &models.Ticket{
		Key:         "TXT-1",
		Summary:     "Crash on save",
		Description: "Editor crashes when saving large files",
		Status:      "In Progress",
		IssueType:   "Bug",
		Comments: []models.Comment{
			{Author: "Ana", Body: "Reproduced on 1.4", Created: "2026-08-01T10:00:00.000+0000"},
		},
	}

	text := AssembleTicketText(ticket, false)

	for _, want := range []string{
		"Issue: TXT-1 - Crash on save",
		"Description: Editor crashes when saving large files",
		"Status: In Progress",
		"Type: Bug",
		"Comments:",
		"- Ana: Reproduced on 1.4",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("assembled text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "2026-08-01") {
		t.Fatalf("comment dates should be omitted without withCommentDates:\n%s", text)
	}
}

func TestAssembleTicketText_WithCommentDates(t *testing.T) {
	ticket := &models.Ticket{
		Key:       "TXT-2",
		Summary:   "s",
		IssueType: "Bug",
		Comments: []models.Comment{
			{Author: "Ben", Body: "fixed it", Created: "2026-08-02T10:00:00.000+0000"},
		},
	}

	text := AssembleTicketText(ticket, true)
	if !strings.Contains(text, "- Ben (2026-08-02T10:00:00.000+0000): fixed it") {
		t.Fatalf("expected dated comment line:\n%s", text)
	}
}

func TestAssembleTicketText_TruncatesToExactCap(t *testing.T) {
	ticket := &models.Ticket{
		Key:         "TXT-3",
		Summary:     "huge",
		Description: strings.Repeat("x", 20000),
		Status:      "Open",
		IssueType:   "Bug",
	}

	text := AssembleTicketText(ticket, false)
	if len(text) != maxTicketTextChars+len(truncationMarker) {
		t.Fatalf("expected %d chars, got %d", maxTicketTextChars+len(truncationMarker), len(text))
	}
	if !strings.HasSuffix(text, truncationMarker) {
		t.Fatalf("truncated text must end with marker, got %q", text[len(text)-30:])
	}
}

func TestAssembleTicketText_ShortTextNotTruncated(t *testing.T) {
	ticket := &models.Ticket{Key: "TXT-4", Summary: "tiny", IssueType: "Bug"}

	text := AssembleTicketText(ticket, false)
	if strings.Contains(text, truncationMarker) {
		t.Fatalf("short text must not carry the marker:\n%s", text)
	}
}

func TestAnalyze_AttachesResponseAndUsesLowTemperature(t *testing.T) {
	gateway := &fakeGateway{
		fn: func(prompt string, _ float64) (string, error) {
			return "analysis of: " + prompt[:20], nil
		},
	}
	tickets := []*models.Ticket{
		{Key: "AN-1", Summary: "one", IssueType: "Bug"},
		{Key: "AN-2", Summary: "two", IssueType: "Story"},
	}

	NewAnalyzer(gateway, nil).Analyze(tickets)

	if len(gateway.calls) != 2 {
		t.Fatalf("expected one gateway call per ticket, got %d", len(gateway.calls))
	}
	for _, temp := range gateway.temps {
		if temp != analysisTemperature {
			t.Fatalf("expected temperature %v, got %v", analysisTemperature, temp)
		}
	}
	for _, ticket := range tickets {
		if ticket.Analysis == "" {
			t.Fatalf("ticket %s has no analysis", ticket.Key)
		}
	}
}

func TestAnalyze_FailureSubstitutesPlaceholderAndContinues(t *testing.T) {
	gateway := &fakeGateway{
		fn: func(prompt string, _ float64) (string, error) {
			if strings.Contains(prompt, "AN-2") {
				return "", errors.New("connection refused")
			}
			return "fine", nil
		},
	}
	tickets := []*models.Ticket{
		{Key: "AN-1", Summary: "one", IssueType: "Bug"},
		{Key: "AN-2", Summary: "two", IssueType: "Story"},
		{Key: "AN-3", Summary: "three", IssueType: "Task"},
	}

	NewAnalyzer(gateway, nil).Analyze(tickets)

	if tickets[0].Analysis != "fine" || tickets[2].Analysis != "fine" {
		t.Fatalf("healthy tickets should keep their analyses: %+v", tickets)
	}
	if tickets[1].Analysis != analysisFailedPlaceholder {
		t.Fatalf("failed ticket should carry the placeholder, got %q", tickets[1].Analysis)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		issueType string
		want      string
	}{
		{"Bug Report", models.CategoryBugs},
		{"bug", models.CategoryBugs},
		{"User Story", models.CategoryFeatures},
		{"Feature Request", models.CategoryFeatures},
		{"Documentation", models.CategoryDocumentation},
		{"Technical Task", models.CategoryTechnicalDebt},
		{"Tech Debt", models.CategoryTechnicalDebt},
		{"Epic", models.CategoryOther},
		{"", models.CategoryOther},
	}

	for _, tc := range cases {
		if got := Categorize(tc.issueType); got != tc.want {
			t.Errorf("Categorize(%q) = %q, want %q", tc.issueType, got, tc.want)
		}
	}
}

func TestCategorize_BugWinsOverStory(t *testing.T) {
	// First matching rule wins when a label matches several.
	if got := Categorize("Bug Story"); got != models.CategoryBugs {
		t.Fatalf("bug rule should win, got %q", got)
	}
}
