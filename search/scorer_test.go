package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      int
	}{
		{"substring", "cs", "CAS CS 111 Introduction to Computer Science", 100},
		{"case insensitive", "MATH", "discrete math", 100},
		{"identical", "calculus", "calculus", 100},
		{"both empty", "", "", 100},
		{"empty query", "", "calculus", 0},
		{"disjoint", "xyz", "abc", 0},
		{"longer query swaps", "introduction to philosophy", "philosophy", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartialRatio{}.Score(tt.query, tt.candidate))
		})
	}
}

func TestPartialRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"calculs", "Calculus I"},
		{"intro", "Introduction to Philosophy"},
		{"q", "Writing Seminar"},
	}
	for _, p := range pairs {
		score := PartialRatio{}.Score(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestPartialRatio_Ordering(t *testing.T) {
	target := "cas ma 123 calculus i jones ma mathematics cama123"
	near := PartialRatio{}.Score("calculs", target)
	far := PartialRatio{}.Score("philosphy", target)
	assert.Greater(t, near, minScore)
	assert.Greater(t, near, far)
}

func TestPartialRatio_LongCandidate(t *testing.T) {
	query := "introduction to computer programming"
	candidate := strings.Repeat("cas cs 111 introduction to computer science 1 smith ", 3)
	score := PartialRatio{}.Score(query, candidate)
	assert.Greater(t, score, minScore)
	assert.Less(t, score, 100)
}

func TestScorerFunc(t *testing.T) {
	var s Scorer = ScorerFunc(func(query, candidate string) int { return len(query) })
	assert.Equal(t, 3, s.Score("abc", "anything"))
}
