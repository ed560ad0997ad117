package search

import (
	"strings"

	fuzz "github.com/paul-mannino/go-fuzzywuzzy"
)

// Scorer rates how well query matches candidate on a 0..100 scale.
type Scorer interface {
	Score(query, candidate string) int
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(query, candidate string) int

// Score calls f(query, candidate).
func (f ScorerFunc) Score(query, candidate string) int {
	return f(query, candidate)
}

// PartialRatio scores the best alignment of the shorter string inside the
// longer one using fuzzywuzzy's partial ratio. Comparison is case-insensitive.
type PartialRatio struct{}

var _ Scorer = PartialRatio{}

// Score implements Scorer.
func (PartialRatio) Score(query, candidate string) int {
	needle := strings.ToLower(query)
	hay := strings.ToLower(candidate)
	if len(needle) > len(hay) {
		needle, hay = hay, needle
	}
	switch {
	case needle == "" && hay == "":
		return 100
	case needle == "":
		return 0
	case strings.Contains(hay, needle):
		return 100
	}
	return fuzz.PartialRatio(needle, hay)
}
