package ingestion

import (
	"testing"

	"github.com/poiesic/coursegrid/core"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Check(t *testing.T) {
	filter := NewFilter([]string{"Term 2265"}, []string{"Fall 2025", "Spring 2026"}, nil)

	tests := []struct {
		name    string
		section *core.Section
		want    Verdict
	}{
		{name: "display term", section: &core.Section{ID: "a", Code: "A", Term: "Fall 2025"}, want: Accepted},
		{name: "excluded term", section: &core.Section{ID: "a", Code: "A", Term: "Term 2265"}, want: SkippedTerm},
		{name: "term not displayed", section: &core.Section{ID: "a", Code: "A", Term: "Fall 2030"}, want: SkippedTerm},
		{name: "missing code", section: &core.Section{ID: "a", Term: "Fall 2025"}, want: Invalid},
		{name: "negative credits", section: &core.Section{ID: "a", Code: "A", Term: "Fall 2025", Credits: -1}, want: Invalid},
		{name: "nil", section: nil, want: Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Check(tt.section))
		})
	}
}

func TestFilter_EmptyAllowListAdmitsAllTerms(t *testing.T) {
	filter := NewFilter([]string{"Term 2265"}, nil, nil)

	assert.Equal(t, Accepted, filter.Check(&core.Section{ID: "a", Code: "A", Term: "Fall 2030"}))
	assert.Equal(t, SkippedTerm, filter.Check(&core.Section{ID: "a", Code: "A", Term: "Term 2265"}))
}

func TestCollect(t *testing.T) {
	filter := NewFilter([]string{"Term 2265"}, []string{"Fall 2025"}, nil)
	sections := []*core.Section{
		{ID: "b", Code: "B", Term: "Fall 2025"},
		{ID: "x", Code: "X", Term: "Term 2265"},
		{ID: "", Code: "Y", Term: "Fall 2025"},
		{ID: "a", Code: "A", Term: "Fall 2025"},
	}

	verdicts := make([]Verdict, len(sections))
	for i, s := range sections {
		verdicts[i] = filter.Check(s)
	}
	accepted, stats := collect(sections, verdicts)
	assert.Equal(t, FilterStats{Accepted: 2, SkippedTerm: 1, Invalid: 1}, stats)
	assert.Len(t, accepted, 2)
	assert.Equal(t, "b", accepted[0].ID)
	assert.Equal(t, "a", accepted[1].ID)
}
