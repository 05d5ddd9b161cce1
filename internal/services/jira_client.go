package services

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"
	"jira-docgen/internal/models"

	"github.com/go-resty/resty/v2"
)

type jiraClient struct {
	client  *resty.Client
	baseURL string
}

func NewJiraClient(config *JiraConfig) interfaces.QueryClient {
	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetBasicAuth(config.Username, config.APIToken).
		SetTimeout(time.Duration(config.Timeout) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &jiraClient{
		client:  client,
		baseURL: config.BaseURL,
	}
}

func (jc *jiraClient) SearchIssues(jql string, startAt, maxResults int) (*models.SearchPage, error) {
	var response models.SearchPage

	resp, err := jc.client.R().
		SetQueryParam("jql", jql).
		SetQueryParam("startAt", strconv.Itoa(startAt)).
		SetQueryParam("maxResults", strconv.Itoa(maxResults)).
		SetQueryParam("fields", "summary,description,status,issuetype,created,updated").
		SetResult(&response).
		Get("/rest/api/3/search")

	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Jira API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return &response, nil
}

func (jc *jiraClient) GetComments(issueKey string) ([]models.Comment, error) {
	var page models.CommentPage

	resp, err := jc.client.R().
		SetResult(&page).
		Get(fmt.Sprintf("/rest/api/3/issue/%s/comment", issueKey))

	if err != nil {
		return nil, fmt.Errorf("failed to get comments for issue %s: %w", issueKey, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Jira API returned status %d for comments of issue %s", resp.StatusCode(), issueKey)
	}

	comments := make([]models.Comment, 0, len(page.Comments))
	for _, raw := range page.Comments {
		comments = append(comments, models.Comment{
			Author:  commentAuthor(raw),
			Body:    CleanBody(BodyText(raw.Body)),
			Created: raw.Created,
		})
	}

	return comments, nil
}

func commentAuthor(raw models.RawComment) string {
	if raw.Author == nil {
		return "unknown"
	}
	if name, ok := raw.Author["displayName"].(string); ok && name != "" {
		return name
	}
	if email, ok := raw.Author["emailAddress"].(string); ok && email != "" {
		return email
	}
	return "unknown"
}

// BuildJQL constructs the project query. Newest tickets come first so a
// report leads with current work.
func BuildJQL(projectKey string) string {
	return fmt.Sprintf("project = %s ORDER BY created DESC", projectKey)
}
