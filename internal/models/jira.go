package models

// Issue is a raw Jira issue as returned by the search API. Fields is kept
// as a loose map because the field set varies per instance; the normalizer
// extracts what it needs.
type Issue struct {
	Key    string                 `json:"key"`
	ID     string                 `json:"id"`
	Self   string                 `json:"self"`
	Fields map[string]interface{} `json:"fields"`
}

// SearchPage is one page of the Jira search API response.
type SearchPage struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// CommentPage is the Jira issue comment API response.
type CommentPage struct {
	StartAt    int          `json:"startAt"`
	MaxResults int          `json:"maxResults"`
	Total      int          `json:"total"`
	Comments   []RawComment `json:"comments"`
}

// RawComment is a single comment as returned by the comment API. The body
// may be a plain string or an Atlassian document tree depending on the
// API version.
type RawComment struct {
	ID      string                 `json:"id"`
	Author  map[string]interface{} `json:"author"`
	Body    interface{}            `json:"body"`
	Created string                 `json:"created"`
	Updated string                 `json:"updated"`
}
