package index

import (
	"testing"

	"github.com/poiesic/coursegrid/core"
	"github.com/stretchr/testify/assert"
)

func filterSections() []core.Section {
	return []core.Section{
		{ID: "0", Department: "CS", Term: "Fall 2025", College: "CAS", Status: "Open", HubUnits: []string{"Quantitative Reasoning I"}},
		{ID: "1", Department: "MA", Term: "Fall 2025", College: "CAS", Status: "Closed", HubUnits: []string{"Quantitative Reasoning I", "Critical Thinking"}},
		{ID: "2", Department: "CS", Term: "Spring 2026", College: "CAS", Status: "Open"},
		{ID: "3", Department: "EC", Term: "Spring 2026", College: "CAS"},
		{ID: "4", Department: "BE", Term: "Fall 2025", College: "ENG", Status: "Open", HubUnits: []string{"Critical Thinking"}},
	}
}

func TestBitmap_Filter(t *testing.T) {
	b := BuildBitmap(filterSections())

	tests := []struct {
		name    string
		filters Filters
		want    []uint32
	}{
		{"no filters", Filters{}, []uint32{0, 1, 2, 3, 4}},
		{"single subject", Filters{Subjects: []string{"CS"}}, []uint32{0, 2}},
		{"or within field", Filters{Subjects: []string{"CS", "MA"}}, []uint32{0, 1, 2}},
		{"and across fields", Filters{Subjects: []string{"CS"}, Terms: []string{"Fall 2025"}}, []uint32{0}},
		{"multi-valued hub", Filters{Hubs: []string{"Critical Thinking"}}, []uint32{1, 4}},
		{"college", Filters{Colleges: []string{"ENG"}}, []uint32{4}},
		{"status", Filters{Statuses: []string{"Open"}}, []uint32{0, 2, 4}},
		{"unknown value skipped", Filters{Subjects: []string{"FAKE"}}, []uint32{0, 1, 2, 3, 4}},
		{"unknown value next to known", Filters{Subjects: []string{"FAKE", "EC"}}, []uint32{3}},
		{"unknown field value keeps other constraints", Filters{Subjects: []string{"FAKE"}, Terms: []string{"Spring 2026"}}, []uint32{2, 3}},
		{"disjoint fields", Filters{Subjects: []string{"EC"}, Terms: []string{"Fall 2025"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Filter(tt.filters).ToArray()
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBitmap_FilterCommutative(t *testing.T) {
	b := BuildBitmap(filterSections())

	a := b.Filter(Filters{Subjects: []string{"CS"}, Terms: []string{"Spring 2026"}})
	c := b.Filter(Filters{Terms: []string{"Spring 2026"}, Subjects: []string{"CS"}})
	assert.True(t, a.Equals(c))
}

func TestBitmap_FilterUnion(t *testing.T) {
	b := BuildBitmap(filterSections())

	both := b.Filter(Filters{Subjects: []string{"CS", "MA"}})
	cs := b.Filter(Filters{Subjects: []string{"CS"}})
	ma := b.Filter(Filters{Subjects: []string{"MA"}})
	cs.Or(ma)
	assert.True(t, both.Equals(cs))
}

func TestBitmap_Values(t *testing.T) {
	b := BuildBitmap(filterSections())

	assert.Equal(t, []string{"BE", "CS", "EC", "MA"}, b.Values(FieldSubject))
	assert.Equal(t, []string{"Fall 2025", "Spring 2026"}, b.Values(FieldTerm))
	assert.Equal(t, []string{"Critical Thinking", "Quantitative Reasoning I"}, b.Values(FieldHub))
	assert.Equal(t, []string{"CAS", "ENG"}, b.Values(FieldCollege))
	assert.Equal(t, []string{"Closed", "Open"}, b.Values(FieldStatus))
	assert.Nil(t, b.Values(Field(42)))
}

func TestBitmap_Empty(t *testing.T) {
	b := BuildBitmap(nil)
	assert.True(t, b.Filter(Filters{Subjects: []string{"CS"}}).IsEmpty())
	assert.Empty(t, b.Values(FieldSubject))
}

func TestFilters_IsEmpty(t *testing.T) {
	assert.True(t, Filters{}.IsEmpty())
	assert.True(t, Filters{Subjects: []string{}}.IsEmpty())
	assert.False(t, Filters{Statuses: []string{"Open"}}.IsEmpty())
}
