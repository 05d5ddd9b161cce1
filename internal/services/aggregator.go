package services

import (
	"fmt"
	"strings"
	"time"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"
	"jira-docgen/internal/models"
)

const (
	summaryTemperature = 0.3

	// Digest limits: a few tickets per category, a slice of each
	// analysis, and a hard cap on the whole digest.
	digestTicketsPerCategory = 3
	digestAnalysisChars      = 500
	maxDigestChars           = 10000

	// summaryFailedPlaceholder replaces the executive summary when the
	// synthesis call fails; the report still ships with the per-ticket
	// analyses.
	summaryFailedPlaceholder = "Executive summary unavailable. Please see the individual ticket analyses for details."
)

const summaryPromptTemplate = `You are a technical documentation expert that synthesizes information into clear, concise summaries.

Based on the following analyses of tickets for project %s,
write an executive summary that highlights:

1. Major features and improvements
2. Common issues and their resolutions
3. Technical decisions and their rationale
4. Recommendations for future improvements

Keep your summary comprehensive but concise.

Analyses:
%s`

// Aggregator groups analyzed tickets and assembles the document model.
type Aggregator struct {
	gateway interfaces.Gateway
}

func NewAggregator(gateway interfaces.Gateway) *Aggregator {
	return &Aggregator{gateway: gateway}
}

// GroupByCategory buckets tickets into the fixed category set in its
// rendering order. Empty categories are omitted.
func GroupByCategory(tickets []*models.Ticket) []models.Section {
	buckets := make(map[string][]*models.Ticket)
	for _, ticket := range tickets {
		category := Categorize(ticket.IssueType)
		buckets[category] = append(buckets[category], ticket)
	}

	var sections []models.Section
	for _, category := range models.CategoryOrder {
		if len(buckets[category]) == 0 {
			continue
		}
		sections = append(sections, models.Section{
			Title:   category,
			Tickets: buckets[category],
		})
	}
	return sections
}

// GroupByTypeLabel buckets tickets by their raw issue-type label. Section
// order is the order in which each label first appeared; no sorting.
func GroupByTypeLabel(tickets []*models.Ticket) []models.Section {
	index := make(map[string]int)
	var sections []models.Section

	for _, ticket := range tickets {
		label := ticket.IssueType
		i, ok := index[label]
		if !ok {
			i = len(sections)
			index[label] = i
			sections = append(sections, models.Section{Title: label})
		}
		sections[i].Tickets = append(sections[i].Tickets, ticket)
	}
	return sections
}

// BuildDigest condenses grouped analyses into the text fed to the
// executive-summary call: per section a category line plus up to three
// tickets, each contributing its key, summary, and a slice of its
// analysis. The whole digest is capped.
func BuildDigest(sections []models.Section) string {
	var parts []string

	for _, section := range sections {
		parts = append(parts, fmt.Sprintf("Category: %s", section.Title))
		limit := len(section.Tickets)
		if limit > digestTicketsPerCategory {
			limit = digestTicketsPerCategory
		}
		for _, ticket := range section.Tickets[:limit] {
			analysis := ticket.Analysis
			if len(analysis) > digestAnalysisChars {
				analysis = analysis[:digestAnalysisChars] + "..."
			}
			parts = append(parts, fmt.Sprintf("Issue %s: %s\nAnalysis: %s", ticket.Key, ticket.Summary, analysis))
		}
	}

	return TruncateText(strings.Join(parts, "\n\n"), maxDigestChars)
}

// BuildDocumentationReport produces the docs-variant document: grouped
// categories plus one cross-category executive summary. A failed summary
// call degrades to a placeholder rather than aborting the run.
func (a *Aggregator) BuildDocumentationReport(projectKey string, tickets []*models.Ticket, now time.Time) *models.Document {
	logger := GetLogger()
	sections := GroupByCategory(tickets)

	summary := summaryFailedPlaceholder
	prompt := fmt.Sprintf(summaryPromptTemplate, projectKey, BuildDigest(sections))

	response, err := a.gateway.Complete(prompt, summaryTemperature)
	if err != nil {
		gwErr := WrapError(err, ErrorTypeGateway, "SUMMARY_FAILED", "executive summary call failed").
			WithContext("project", projectKey)
		logger.Warn().Err(gwErr).Msg("executive summary substituted with placeholder")
	} else {
		summary = response
	}

	return &models.Document{
		Kind:             models.KindDocumentation,
		ProjectKey:       projectKey,
		Title:            fmt.Sprintf("Project Documentation: %s", projectKey),
		GeneratedAt:      now,
		ExecutiveSummary: summary,
		Sections:         sections,
	}
}

// BuildSolutionFAQ produces the faq-variant document from the solved set.
func (a *Aggregator) BuildSolutionFAQ(projectKey string, solved []*models.Ticket, now time.Time) *models.Document {
	intro := fmt.Sprintf(
		"This document contains solutions to common problems identified in the %s project. "+
			"Each solution has been extracted from tickets and their associated comments. "+
			"This FAQ-style documentation is intended to help team members quickly find solutions to known issues.",
		projectKey)

	return &models.Document{
		Kind:         models.KindSolutionFAQ,
		ProjectKey:   projectKey,
		Title:        fmt.Sprintf("Solution FAQ for Project: %s", projectKey),
		GeneratedAt:  now,
		Introduction: intro,
		Sections:     GroupByTypeLabel(solved),
	}
}
