package services

import (
	"fmt"

	"jira-docgen/internal/models"
)

// fakeQueryClient serves scripted pages. Each call to SearchIssues
// consumes the next page; totals can differ per page to simulate a source
// revising its count mid-retrieval.
type fakeQueryClient struct {
	pages     []models.SearchPage
	calls     int
	searchErr error

	comments    map[string][]models.Comment
	commentsErr map[string]error
}

func (f *fakeQueryClient) SearchIssues(jql string, startAt, maxResults int) (*models.SearchPage, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.calls >= len(f.pages) {
		return &models.SearchPage{StartAt: startAt, Total: startAt}, nil
	}
	page := f.pages[f.calls]
	f.calls++
	page.StartAt = startAt
	return &page, nil
}

func (f *fakeQueryClient) GetComments(issueKey string) ([]models.Comment, error) {
	if err, ok := f.commentsErr[issueKey]; ok {
		return nil, err
	}
	return f.comments[issueKey], nil
}

// fakeGateway answers every completion from a single function.
type fakeGateway struct {
	fn    func(prompt string, temperature float64) (string, error)
	calls []string
	temps []float64
}

func (f *fakeGateway) Complete(prompt string, temperature float64) (string, error) {
	f.calls = append(f.calls, prompt)
	f.temps = append(f.temps, temperature)
	return f.fn(prompt, temperature)
}

func issueFields(summary, description, status, issueType string) map[string]interface{} {
	fields := map[string]interface{}{
		"summary":   summary,
		"status":    map[string]interface{}{"name": status},
		"issuetype": map[string]interface{}{"name": issueType},
		"created":   "2026-08-01T09:00:00.000+0000",
		"updated":   "2026-08-02T09:00:00.000+0000",
	}
	if description != "" {
		fields["description"] = description
	}
	return fields
}

func makeIssues(prefix string, n int) []models.Issue {
	issues := make([]models.Issue, n)
	for i := range issues {
		key := fmt.Sprintf("%s-%d", prefix, i+1)
		issues[i] = models.Issue{
			Key:    key,
			Fields: issueFields("summary "+key, "description "+key, "Done", "Task"),
		}
	}
	return issues
}
