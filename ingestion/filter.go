package ingestion

import (
	"log/slog"

	"github.com/poiesic/coursegrid/core"
)

// Verdict is the outcome of checking one decoded section.
type Verdict int

const (
	Accepted Verdict = iota
	SkippedTerm
	Invalid
)

// Filter decides which decoded sections belong in the catalog.
type Filter struct {
	excluded map[string]struct{}
	allowed  map[string]struct{}
	logger   *slog.Logger
}

// NewFilter creates a filter that drops sections whose term is excluded or,
// when displayTerms is non-empty, not listed in displayTerms.
func NewFilter(excludedTerms, displayTerms []string, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Filter{
		excluded: make(map[string]struct{}, len(excludedTerms)),
		logger:   logger,
	}
	for _, term := range excludedTerms {
		f.excluded[term] = struct{}{}
	}
	if len(displayTerms) > 0 {
		f.allowed = make(map[string]struct{}, len(displayTerms))
		for _, term := range displayTerms {
			f.allowed[term] = struct{}{}
		}
	}
	return f
}

// Check classifies a single section. Invalid sections are logged at Warn.
func (f *Filter) Check(section *core.Section) Verdict {
	if section != nil {
		if _, ok := f.excluded[section.Term]; ok {
			return SkippedTerm
		}
		if f.allowed != nil {
			if _, ok := f.allowed[section.Term]; !ok {
				return SkippedTerm
			}
		}
	}
	if err := core.ValidateSection(section); err != nil {
		f.logger.Warn("skipping invalid section", "err", err)
		return Invalid
	}
	return Accepted
}

// FilterStats counts the verdicts of a filter pass.
type FilterStats struct {
	Accepted    int
	SkippedTerm int
	Invalid     int
}

func (s *FilterStats) add(v Verdict) {
	switch v {
	case Accepted:
		s.Accepted++
	case SkippedTerm:
		s.SkippedTerm++
	case Invalid:
		s.Invalid++
	}
}

// collect keeps the accepted sections in order and tallies every verdict.
func collect(sections []*core.Section, verdicts []Verdict) ([]*core.Section, FilterStats) {
	var stats FilterStats
	accepted := make([]*core.Section, 0, len(sections))
	for i, v := range verdicts {
		stats.add(v)
		if v == Accepted {
			accepted = append(accepted, sections[i])
		}
	}
	return accepted, stats
}
