package services

import (
	"fmt"
	"time"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"
	"jira-docgen/internal/models"
)

// Pipeline wires the stages together: fetch, normalize, analyze or
// extract, aggregate, render. Strictly sequential; one ticket at a time,
// no retries. Only the initial retrieval and the final document write can
// abort a run.
type Pipeline struct {
	client   interfaces.QueryClient
	gateway  interfaces.Gateway
	renderer interfaces.Renderer
	storage  interfaces.Storage
	progress interfaces.ProgressSink

	pageSize int
	now      func() time.Time
}

// RunResult summarizes one completed run.
type RunResult struct {
	OutputPath    string
	TicketCount   int
	SolutionCount int
}

func NewPipeline(
	client interfaces.QueryClient,
	gateway interfaces.Gateway,
	renderer interfaces.Renderer,
	storage interfaces.Storage,
	progress interfaces.ProgressSink,
	pageSize int,
) *Pipeline {
	if progress == nil {
		progress = NopProgress()
	}
	return &Pipeline{
		client:   client,
		gateway:  gateway,
		renderer: renderer,
		storage:  storage,
		progress: progress,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// RunDocumentation executes the documentation report end to end.
func (p *Pipeline) RunDocumentation(projectKey string) (*RunResult, error) {
	logger := GetLogger()

	tickets, err := p.collect(projectKey)
	if err != nil {
		return nil, err
	}

	NewAnalyzer(p.gateway, p.progress).Analyze(tickets)

	doc := NewAggregator(p.gateway).BuildDocumentationReport(projectKey, tickets, p.now())

	path, err := p.renderer.Render(doc)
	if err != nil {
		return nil, err
	}

	result := &RunResult{OutputPath: path, TicketCount: len(tickets)}
	p.archiveRun(projectKey, models.KindDocumentation, result)

	logger.Info().
		Str("project", projectKey).
		Int("tickets", len(tickets)).
		Str("output", path).
		Msg("documentation report complete")

	return result, nil
}

// RunSolutionFAQ executes the FAQ report end to end. When no ticket in
// the project yields a solution, no file is written.
func (p *Pipeline) RunSolutionFAQ(projectKey string) (*RunResult, error) {
	logger := GetLogger()

	tickets, err := p.collect(projectKey)
	if err != nil {
		return nil, err
	}

	solved := NewExtractor(p.gateway, p.progress).ExtractSolutions(tickets)

	result := &RunResult{TicketCount: len(tickets), SolutionCount: len(solved)}
	if len(solved) == 0 {
		logger.Info().Str("project", projectKey).Msg("no solutions found in any ticket, no document generated")
		return result, nil
	}

	doc := NewAggregator(p.gateway).BuildSolutionFAQ(projectKey, solved, p.now())

	path, err := p.renderer.Render(doc)
	if err != nil {
		return nil, err
	}
	result.OutputPath = path
	p.archiveRun(projectKey, models.KindSolutionFAQ, result)

	logger.Info().
		Str("project", projectKey).
		Int("tickets", len(tickets)).
		Int("solutions", len(solved)).
		Str("output", path).
		Msg("solution FAQ complete")

	return result, nil
}

func (p *Pipeline) collect(projectKey string) ([]*models.Ticket, error) {
	normalizer := NewNormalizer(p.client, p.progress)

	issues, err := normalizer.FetchAllIssues(projectKey, p.pageSize)
	if err != nil {
		return nil, err
	}

	tickets := normalizer.Normalize(issues)

	// The archive is best effort; a storage fault must not cost a run
	// that already paid for its remote calls.
	if p.storage != nil {
		if err := p.storage.SaveTickets(projectKey, tickets); err != nil {
			storageErr := WrapError(err, ErrorTypeStorage, "ARCHIVE_FAILED", "failed to archive tickets")
			GetLogger().Warn().Err(storageErr).Str("project", projectKey).Msg("continuing without archive")
		}
	}

	return tickets, nil
}

func (p *Pipeline) archiveRun(projectKey, kind string, result *RunResult) {
	if p.storage == nil {
		return
	}
	info := &interfaces.RunInfo{
		Kind:          kind,
		CompletedAt:   p.now(),
		TicketCount:   result.TicketCount,
		SolutionCount: result.SolutionCount,
		OutputPath:    result.OutputPath,
	}
	if err := p.storage.SaveRunInfo(projectKey, info); err != nil {
		GetLogger().Warn().Err(err).Str("project", projectKey).Msg("failed to record run info")
	}
}

// FormatStats renders archived run information for the stats command.
func FormatStats(storage interfaces.Storage, projectKey string) (string, error) {
	tickets, err := storage.LoadTickets(projectKey)
	if err != nil {
		return "", fmt.Errorf("failed to load archived tickets: %w", err)
	}

	info, err := storage.LastRunInfo(projectKey)
	if err != nil {
		return "", fmt.Errorf("failed to load run info: %w", err)
	}

	if info == nil {
		return fmt.Sprintf("project %s: %d archived tickets, no completed runs", projectKey, len(tickets)), nil
	}

	return fmt.Sprintf("project %s: %d archived tickets, last run %s (%s, %d tickets, %d solutions, output %s)",
		projectKey, len(tickets), info.CompletedAt.Format("2006-01-02 15:04"),
		info.Kind, info.TicketCount, info.SolutionCount, info.OutputPath), nil
}
