package services

import (
	"sync"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"
)

// logProgress reports phase progress through the arbor logger. Counts are
// monotonic within a phase; the total may be revised upward by the source.
type logProgress struct {
	mu    sync.Mutex
	phase string
	count int
	total int
}

func NewLogProgress() interfaces.ProgressSink {
	return &logProgress{}
}

func (p *logProgress) Begin(phase string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = phase
	p.count = 0
	p.total = total

	GetLogger().Info().Str("phase", phase).Int("total", total).Msg("phase started")
}

func (p *logProgress) Advance(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count += n

	GetLogger().Info().Str("phase", p.phase).Int("done", p.count).Int("total", p.total).Msg("progress")
}

func (p *logProgress) End(phase string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	GetLogger().Info().Str("phase", phase).Int("done", p.count).Msg("phase complete")
}

type nopProgress struct{}

func (nopProgress) Begin(string, int) {}
func (nopProgress) Advance(int)       {}
func (nopProgress) End(string)        {}

// NopProgress returns a sink that discards all progress reports.
func NopProgress() interfaces.ProgressSink {
	return nopProgress{}
}
