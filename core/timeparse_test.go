package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"9:30 AM", 570},
		{"2:30 PM", 870},
		{"14:30", 870},
		{"12:15 PM", 735},
		{"12:15 AM", 15},
		{" 10:10 ", 610},
		{"10:10am", 610},
		{"1430", 870},
		{"0900", 540},
		{"9", 540},
		{"", 0},
		{"TBA", 0},
		{"ab:cd", 0},
		{"10:", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTimeToMinutes(tt.in))
		})
	}
}

func TestParseDaysToSet(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"MWF", []string{"M", "W", "F"}},
		{"TuTh", []string{"TU", "TH"}},
		{"MoWeFr", []string{"M", "W", "F"}},
		{"MTWTHF", []string{"M", "T", "W", "TH", "F"}},
		{"Sa", []string{"SA"}},
		{"", nil},
		{"TBA", []string{"T"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDaysToSet(tt.in)
			assert.Len(t, got, len(tt.want))
			for _, code := range tt.want {
				assert.Contains(t, got, code)
			}
		})
	}
}

func TestParseDaysToCodes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"MWF", []string{"M", "W", "F"}},
		{"TuTh", []string{"TU", "TH"}},
		{"MoWeFr", []string{"MO", "WE", "FR"}},
		{"MTuWThF", []string{"TU", "TH", "M", "W", "F"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDaysToCodes(tt.in))
		})
	}
}

func TestParseDaysToFullNames(t *testing.T) {
	assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, ParseDaysToFullNames("MWF"))
	assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, ParseDaysToFullNames("MoWeFr"))
	assert.Equal(t, []string{"Tuesday", "Thursday"}, ParseDaysToFullNames("TuTh"))
	assert.Empty(t, ParseDaysToFullNames("TBA"))
}
