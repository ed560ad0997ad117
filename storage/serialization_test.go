package storage

import (
	"testing"
	"time"

	"github.com/poiesic/coursegrid/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalSection(t *testing.T) {
	tests := []struct {
		name    string
		section *core.Section
	}{
		{
			name:    "minimal section",
			section: &core.Section{ID: "CAS-CS-111-A1", Code: "CAS CS 111", Term: "Fall 2025"},
		},
		{
			name: "full section",
			section: &core.Section{
				ID:              "CAS-CS-111-A1-Fall2025",
				Code:            "CAS CS 111",
				Title:           "Introduction to Computer Science 1",
				Description:     "Programming in Python — loops, recursion, ünïcödé.",
				Section:         "A1",
				Professor:       "Smith",
				Term:            "Fall 2025",
				Credits:         4,
				HubUnits:        []string{"Quantitative Reasoning I", "Critical Thinking"},
				Department:      "CS",
				College:         "CAS",
				Schedule:        []core.Meeting{{Days: "MWF", StartTime: "10:10", EndTime: "11:00", Location: "CAS 211"}, {Days: "Tu", StartTime: "2:00 PM", EndTime: "3:15 PM"}},
				Status:          "Open",
				EnrollmentCap:   120,
				EnrollmentTotal: 87,
				SectionType:     "Lecture",
				ClassNumber:     12345,
			},
		},
		{
			name:    "negative numbers",
			section: &core.Section{ID: "x", Credits: -1, EnrollmentCap: -5, ClassNumber: -9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalSection(tt.section)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalSection(data)
			require.NoError(t, err)
			assert.Equal(t, tt.section, decoded)
		})
	}
}

func TestUnmarshalSection_Invalid(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalSection([]byte{})
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("truncated data", func(t *testing.T) {
		data := MarshalSection(&core.Section{ID: "CAS-CS-111-A1", Title: "Introduction", HubUnits: []string{"QR"}})
		_, err := UnmarshalSection(data[:len(data)/2])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	checkpoint := &core.Checkpoint{
		Source:      "catalog",
		Fingerprint: core.IDFromContent("fingerprint"),
		Sections:    4213,
		UpdatedAt:   now,
	}

	data := MarshalCheckpoint(checkpoint)
	decoded, err := UnmarshalCheckpoint(data)
	require.NoError(t, err)
	assert.Equal(t, checkpoint.Source, decoded.Source)
	assert.Equal(t, checkpoint.Fingerprint, decoded.Fingerprint)
	assert.Equal(t, checkpoint.Sections, decoded.Sections)
	assert.True(t, checkpoint.UpdatedAt.Equal(decoded.UpdatedAt))

	_, err = UnmarshalCheckpoint(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalSelection(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"empty", nil},
		{"single", []string{"CAS-CS-111-A1"}},
		{"ordered", []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalSelection(MarshalSelection(tt.ids))
			require.NoError(t, err)
			assert.Equal(t, tt.ids, decoded)
		})
	}
}
