package services

import (
	"fmt"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"
	"jira-docgen/internal/models"
)

// Normalizer turns raw tracker records into Ticket values, pulling each
// ticket's comment thread along the way.
type Normalizer struct {
	client   interfaces.QueryClient
	progress interfaces.ProgressSink
}

func NewNormalizer(client interfaces.QueryClient, progress interfaces.ProgressSink) *Normalizer {
	if progress == nil {
		progress = NopProgress()
	}
	return &Normalizer{client: client, progress: progress}
}

// FetchAllIssues walks the paginated search results for a project. The
// total reported by the source is treated as stale the moment it is read:
// every page refreshes it, and the loop ends as soon as the cursor passes
// the current page's total. A page that returns no records while the
// cursor is still short of the total means the source cannot make
// progress, which is fatal.
func (n *Normalizer) FetchAllIssues(projectKey string, pageSize int) ([]models.Issue, error) {
	jql := BuildJQL(projectKey)

	var issues []models.Issue
	seen := make(map[string]bool)
	startAt := 0

	n.progress.Begin("fetch", 0)
	defer n.progress.End("fetch")

	for {
		page, err := n.client.SearchIssues(jql, startAt, pageSize)
		if err != nil {
			return nil, WrapError(err, ErrorTypeRetrieval, "SEARCH_FAILED",
				fmt.Sprintf("issue search failed at offset %d", startAt))
		}

		if len(page.Issues) == 0 {
			if startAt < page.Total {
				return nil, NewRetrievalError("NO_PROGRESS",
					fmt.Sprintf("empty page at offset %d with %d issues reported", startAt, page.Total))
			}
			break
		}

		for _, issue := range page.Issues {
			// A total revised mid-retrieval can re-serve a ticket on a
			// later page; every key is kept exactly once.
			if seen[issue.Key] {
				continue
			}
			seen[issue.Key] = true
			issues = append(issues, issue)
		}

		startAt += len(page.Issues)
		n.progress.Advance(len(page.Issues))

		if startAt >= page.Total {
			break
		}
	}

	return issues, nil
}

// Normalize produces Ticket values with full comment threads. One comment
// call per ticket; a failed thread fetch degrades that ticket to an empty
// thread rather than failing the run.
func (n *Normalizer) Normalize(issues []models.Issue) []*models.Ticket {
	logger := GetLogger()
	tickets := make([]*models.Ticket, 0, len(issues))

	n.progress.Begin("normalize", len(issues))
	defer n.progress.End("normalize")

	for _, issue := range issues {
		ticket := extractTicket(issue)

		comments, err := n.client.GetComments(issue.Key)
		if err != nil {
			logger.Warn().Err(err).Str("ticket", issue.Key).Msg("comment fetch failed, continuing with empty thread")
			comments = nil
		}
		ticket.Comments = comments

		tickets = append(tickets, ticket)
		n.progress.Advance(1)
	}

	return tickets
}

func extractTicket(issue models.Issue) *models.Ticket {
	ticket := &models.Ticket{
		Key:         issue.Key,
		Description: "",
	}

	if summary, ok := issue.Fields["summary"].(string); ok {
		ticket.Summary = summary
	}

	// Description may be a string, a document tree, or absent entirely.
	// Absent normalizes to the empty string.
	ticket.Description = CleanBody(BodyText(issue.Fields["description"]))

	if status, ok := issue.Fields["status"].(map[string]interface{}); ok {
		if name, ok := status["name"].(string); ok {
			ticket.Status = name
		}
	}

	if issueType, ok := issue.Fields["issuetype"].(map[string]interface{}); ok {
		if name, ok := issueType["name"].(string); ok {
			ticket.IssueType = name
		}
	}

	if created, ok := issue.Fields["created"].(string); ok {
		ticket.Created = created
	}

	if updated, ok := issue.Fields["updated"].(string); ok {
		ticket.Updated = updated
	}

	return ticket
}
