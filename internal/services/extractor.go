package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"
	"jira-docgen/internal/models"
)

const (
	extractionTemperature = 0.2

	// noSolutionMarker in a response that failed to parse means the model
	// answered in prose instead of JSON but still found nothing.
	noSolutionMarker = "NO_SOLUTION_FOUND"

	// unparsedSolutionSummary marks tickets kept under the conservative
	// fallback: the response was not valid JSON but did not carry the
	// no-solution marker either, so it may hold a real solution.
	unparsedSolutionSummary = "Solution may exist, but couldn't parse automatically"

	unparsedDetailLimit = 500
)

const extractionPromptTemplate = `You are a technical documentation assistant that analyzes issue-tracker tickets and comments.

Read the following ticket carefully including its description and ALL comments.
Your task is to:

1. Determine if there is a clear SOLUTION to the problem described in the ticket. The solution could be in the description or in any of the comments.
2. If a solution exists, extract and summarize it clearly.
3. If NO solution exists, simply state "NO_SOLUTION_FOUND".

Respond in JSON format with these fields:
{
  "has_solution": true/false,
  "solution_summary": "Brief summary of the solution (if found)",
  "solution_details": "Detailed explanation of the solution (if found)",
  "confidence": "high/medium/low (how confident you are that this is a real solution)"
}

The ticket:
%s`

var (
	jsonFenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFenceRe  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// solutionPayload is the JSON shape the model is asked for.
type solutionPayload struct {
	HasSolution     bool   `json:"has_solution"`
	SolutionSummary string `json:"solution_summary"`
	SolutionDetails string `json:"solution_details"`
	Confidence      string `json:"confidence"`
}

// Extractor runs the constrained solution-extraction pass for the FAQ
// report.
type Extractor struct {
	gateway  interfaces.Gateway
	progress interfaces.ProgressSink
}

func NewExtractor(gateway interfaces.Gateway, progress interfaces.ProgressSink) *Extractor {
	if progress == nil {
		progress = NopProgress()
	}
	return &Extractor{gateway: gateway, progress: progress}
}

// ExtractSolutions asks the model about each ticket and returns only the
// tickets judged to contain a resolved solution, with the solution
// attached. A failed gateway call omits that ticket; a malformed response
// without the no-solution marker is conservatively retained at low
// confidence so a real but garbled solution is never dropped.
func (e *Extractor) ExtractSolutions(tickets []*models.Ticket) []*models.Ticket {
	logger := GetLogger()
	var solved []*models.Ticket

	e.progress.Begin("extract", len(tickets))
	defer e.progress.End("extract")

	for _, ticket := range tickets {
		prompt := fmt.Sprintf(extractionPromptTemplate, AssembleTicketText(ticket, true))

		response, err := e.gateway.Complete(prompt, extractionTemperature)
		if err != nil {
			gwErr := WrapError(err, ErrorTypeGateway, "EXTRACT_FAILED", "extraction call failed").
				WithContext("ticket", ticket.Key)
			logger.Warn().Err(gwErr).Str("ticket", ticket.Key).Msg("skipping ticket, no extraction result")
			e.progress.Advance(1)
			continue
		}

		solution, keep := ParseSolutionResponse(response)
		if keep {
			ticket.Solution = solution
			solved = append(solved, ticket)
		}

		if solution != nil && solution.Confidence == models.ConfidenceLow && solution.Summary == unparsedSolutionSummary {
			logger.Warn().Str("ticket", ticket.Key).Msg("response was not valid JSON, kept at low confidence")
		}

		e.progress.Advance(1)
	}

	return solved
}

// ParseSolutionResponse applies the recovery ladder to one raw model
// response. The returned bool reports whether the ticket belongs in the
// solved set. Parsing is pure: the same response always yields the same
// result.
func ParseSolutionResponse(response string) (*models.Solution, bool) {
	text := strings.TrimSpace(response)

	// Prefer a fenced block: models often wrap their JSON even when told
	// not to.
	if m := jsonFenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	} else if m := anyFenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var payload solutionPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		if strings.Contains(response, noSolutionMarker) {
			return nil, false
		}
		details := response
		if len(details) > unparsedDetailLimit {
			details = details[:unparsedDetailLimit]
		}
		return &models.Solution{
			Summary:    unparsedSolutionSummary,
			Details:    details,
			Confidence: models.ConfidenceLow,
		}, true
	}

	if !payload.HasSolution || payload.Confidence == models.ConfidenceLow {
		return nil, false
	}

	solution := &models.Solution{
		Summary:    payload.SolutionSummary,
		Details:    payload.SolutionDetails,
		Confidence: payload.Confidence,
	}
	if solution.Summary == "" {
		solution.Summary = "No summary provided"
	}
	if solution.Details == "" {
		solution.Details = "No details provided"
	}
	if solution.Confidence == "" {
		solution.Confidence = models.ConfidenceMedium
	}

	return solution, true
}
