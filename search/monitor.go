package search

import (
	"log/slog"

	"github.com/poiesic/coursegrid/core"
)

// Match is a ranked candidate.
type Match struct {
	ID    string
	Score int
}

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, filters Filters)
	AfterFilter(matched uint64)
	AfterCandidates(matched uint64)
	AfterRanking(matches []Match)
	Finish(results []core.Section)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ Filters) {}
func (n *noopMonitor) AfterFilter(_ uint64) {}
func (n *noopMonitor) AfterCandidates(_ uint64) {}
func (n *noopMonitor) AfterRanking(_ []Match) {}
func (n *noopMonitor) Finish(_ []core.Section) {}

// LogMonitor reports stage sizes at debug level.
type LogMonitor struct {
	logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

// NewLogMonitor returns a monitor writing to logger, or slog.Default() when nil.
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger}
}

func (m *LogMonitor) Start(query string, filters Filters) {
	m.logger.Debug("search started", "query", query, "filtered", !filters.IsEmpty())
}

func (m *LogMonitor) AfterFilter(matched uint64) {
	m.logger.Debug("filter applied", "sections", matched)
}

func (m *LogMonitor) AfterCandidates(matched uint64) {
	m.logger.Debug("query candidates", "sections", matched)
}

func (m *LogMonitor) AfterRanking(matches []Match) {
	top := 0
	if len(matches) > 0 {
		top = matches[0].Score
	}
	m.logger.Debug("ranked", "matches", len(matches), "topScore", top)
}

func (m *LogMonitor) Finish(results []core.Section) {
	m.logger.Debug("search finished", "results", len(results))
}
