package interfaces

import (
	"time"

	"jira-docgen/internal/models"
)

// QueryClient is the pull interface onto the remote tracker. Transport
// and authentication are the implementation's concern.
type QueryClient interface {
	SearchIssues(jql string, startAt, maxResults int) (*models.SearchPage, error)
	GetComments(issueKey string) ([]models.Comment, error)
}

// Gateway is a single-shot text-completion endpoint. No streaming, no
// retries; transport errors come back as-is for the caller to classify.
type Gateway interface {
	Complete(prompt string, temperature float64) (string, error)
}

// Renderer serializes a document model to durable storage and returns the
// written path. A failed render must not leave a partial file behind.
type Renderer interface {
	Render(doc *models.Document) (string, error)
}

// Storage archives normalized tickets and run metadata between runs.
type Storage interface {
	SaveTickets(projectKey string, tickets []*models.Ticket) error
	LoadTickets(projectKey string) ([]*models.Ticket, error)
	SaveRunInfo(projectKey string, info *RunInfo) error
	LastRunInfo(projectKey string) (*RunInfo, error)
	Close() error
}

// RunInfo is the archived record of one pipeline run.
type RunInfo struct {
	Kind          string    `json:"kind"`
	CompletedAt   time.Time `json:"completed_at"`
	TicketCount   int       `json:"ticket_count"`
	SolutionCount int       `json:"solution_count"`
	OutputPath    string    `json:"output_path"`
}

// ProgressSink receives monotonic progress counts from long-running
// phases. Implementations must tolerate Total changing between calls,
// as the remote source may revise its count mid-retrieval.
type ProgressSink interface {
	Begin(phase string, total int)
	Advance(n int)
	End(phase string)
}
