package services

import (
	"fmt"
	"strings"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"
	"jira-docgen/internal/models"
)

const (
	// maxTicketTextChars caps the assembled ticket text embedded in a
	// prompt so one verbose thread cannot blow the model's input window.
	maxTicketTextChars = 8000
	truncationMarker   = "... (truncated)"

	analysisTemperature = 0.2

	// analysisFailedPlaceholder stands in for the analysis of a ticket
	// whose gateway call failed. The run never aborts for one ticket.
	analysisFailedPlaceholder = "Analysis unavailable: the language model could not be reached for this ticket."
)

const analysisPromptTemplate = `You are a technical documentation assistant that analyzes issue-tracker tickets and comments to extract valuable information.

Analyze the following ticket and its comments. Extract:
1. Key problems identified
2. Solutions proposed or implemented
3. Technical decisions made
4. Any important information that should be documented

Provide the analysis in a structured format.

%s`

// Analyzer runs the free-form analysis pass for the documentation report.
type Analyzer struct {
	gateway  interfaces.Gateway
	progress interfaces.ProgressSink
}

func NewAnalyzer(gateway interfaces.Gateway, progress interfaces.ProgressSink) *Analyzer {
	if progress == nil {
		progress = NopProgress()
	}
	return &Analyzer{gateway: gateway, progress: progress}
}

// AssembleTicketText flattens one ticket into the text block handed to the
// model: identity line, description, status, type, then the comment thread
// as "- author: body" lines. Text beyond the cap is cut to exactly the cap
// with a visible marker appended.
func AssembleTicketText(ticket *models.Ticket, withCommentDates bool) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Issue: %s - %s\n", ticket.Key, ticket.Summary))
	b.WriteString(fmt.Sprintf("Description: %s\n", ticket.Description))
	b.WriteString(fmt.Sprintf("Status: %s\n", ticket.Status))
	b.WriteString(fmt.Sprintf("Type: %s\n\n", ticket.IssueType))

	if len(ticket.Comments) > 0 {
		b.WriteString("Comments:\n")
		for _, comment := range ticket.Comments {
			if withCommentDates {
				b.WriteString(fmt.Sprintf("- %s (%s): %s\n\n", comment.Author, comment.Created, comment.Body))
			} else {
				b.WriteString(fmt.Sprintf("- %s: %s\n\n", comment.Author, comment.Body))
			}
		}
	}

	return TruncateText(b.String(), maxTicketTextChars)
}

// TruncateText cuts s to at most max characters, appending the truncation
// marker when anything was removed.
func TruncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + truncationMarker
}

// Analyze runs one gateway call per ticket and attaches the raw response
// as that ticket's analysis. A failed call is logged and replaced with a
// placeholder; the remaining tickets still get analyzed.
func (a *Analyzer) Analyze(tickets []*models.Ticket) {
	logger := GetLogger()

	a.progress.Begin("analyze", len(tickets))
	defer a.progress.End("analyze")

	for _, ticket := range tickets {
		prompt := fmt.Sprintf(analysisPromptTemplate, AssembleTicketText(ticket, false))

		analysis, err := a.gateway.Complete(prompt, analysisTemperature)
		if err != nil {
			gwErr := WrapError(err, ErrorTypeGateway, "ANALYZE_FAILED", "analysis call failed").
				WithContext("ticket", ticket.Key)
			logger.Warn().Err(gwErr).Str("ticket", ticket.Key).Msg("analysis substituted with placeholder")
			ticket.Analysis = analysisFailedPlaceholder
		} else {
			ticket.Analysis = analysis
		}

		a.progress.Advance(1)
	}
}

// Categorize classifies a type label into one of the fixed categories by
// case-insensitive substring match, first rule wins.
func Categorize(issueType string) string {
	label := strings.ToLower(issueType)

	switch {
	case strings.Contains(label, "bug"):
		return models.CategoryBugs
	case strings.Contains(label, "feature"), strings.Contains(label, "story"):
		return models.CategoryFeatures
	case strings.Contains(label, "documentation"):
		return models.CategoryDocumentation
	case strings.Contains(label, "technical"), strings.Contains(label, "debt"):
		return models.CategoryTechnicalDebt
	default:
		return models.CategoryOther
	}
}
