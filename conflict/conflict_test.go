package conflict

import (
	"testing"

	"github.com/poiesic/coursegrid/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(id, code string, meetings ...core.Meeting) core.Section {
	return core.Section{ID: id, Code: code, Schedule: meetings}
}

func TestDaysOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"identical", "MWF", "MWF", "F, M, W"},
		{"mixed notation", "MoWeFr", "MWF", "F, M, W"},
		{"partial", "MW", "WF", "W"},
		{"disjoint", "MWF", "TuTh", ""},
		{"two-letter", "TuTh", "Th", "TH"},
		{"empty", "", "MWF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysOverlap(tt.a, tt.b))
		})
	}
}

func TestTimesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		m1, m2 core.Meeting
		want   bool
	}{
		{"overlap", core.Meeting{StartTime: "10:00", EndTime: "11:00"}, core.Meeting{StartTime: "10:30", EndTime: "11:30"}, true},
		{"back to back", core.Meeting{StartTime: "10:00", EndTime: "11:00"}, core.Meeting{StartTime: "11:00", EndTime: "12:00"}, false},
		{"am pm forms", core.Meeting{StartTime: "2:00 PM", EndTime: "3:15 PM"}, core.Meeting{StartTime: "1430", EndTime: "1530"}, true},
		{"unparsable", core.Meeting{StartTime: "TBA", EndTime: "TBA"}, core.Meeting{StartTime: "TBA", EndTime: "TBA"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimesOverlap(tt.m1, tt.m2))
		})
	}
}

func TestDetect(t *testing.T) {
	cs := section("cs", "CAS CS 111", core.Meeting{Days: "MWF", StartTime: "10:00", EndTime: "11:00"})
	ma := section("ma", "CAS MA 123", core.Meeting{Days: "MWF", StartTime: "10:30", EndTime: "11:30"})
	ph := section("ph", "CAS PH 100", core.Meeting{Days: "TuTh", StartTime: "10:00", EndTime: "11:00"})
	ind := section("ind", "CAS CS 491")

	t.Run("overlapping pair", func(t *testing.T) {
		got := Detect([]core.Section{cs, ma})
		require.Len(t, got, 1)
		assert.Equal(t, core.Conflict{
			Course1ID:   "cs",
			Course2ID:   "ma",
			Course1Code: "CAS CS 111",
			Course2Code: "CAS MA 123",
			OverlapDay:  "F, M, W",
			OverlapTime: "10:00-11:00",
		}, got[0])
	})

	t.Run("disjoint days never conflict", func(t *testing.T) {
		assert.Empty(t, Detect([]core.Section{cs, ph}))
	})

	t.Run("no meetings never conflict", func(t *testing.T) {
		assert.Empty(t, Detect([]core.Section{cs, ind}))
	})

	t.Run("first meeting pair wins", func(t *testing.T) {
		multi := section("multi", "CAS CS 210",
			core.Meeting{Days: "M", StartTime: "10:15", EndTime: "10:45"},
			core.Meeting{Days: "W", StartTime: "10:00", EndTime: "12:00"},
		)
		got := Detect([]core.Section{multi, cs})
		require.Len(t, got, 1)
		assert.Equal(t, "M", got[0].OverlapDay)
		assert.Equal(t, "10:15-10:45", got[0].OverlapTime)
	})

	t.Run("each pair once", func(t *testing.T) {
		got := Detect([]core.Section{cs, ma, ph, ind})
		require.Len(t, got, 1)
		assert.Equal(t, "cs", got[0].Course1ID)
	})

	t.Run("section never conflicts with itself", func(t *testing.T) {
		assert.Empty(t, Detect([]core.Section{cs, cs}))
	})

	t.Run("unscheduled meetings never conflict", func(t *testing.T) {
		tba1 := section("tba1", "CAS CS 501", core.Meeting{Days: "TBA", StartTime: "10:00", EndTime: "11:00"})
		tba2 := section("tba2", "CAS CS 502", core.Meeting{Days: "tba", StartTime: "10:00", EndTime: "11:00"})
		tue := section("tue", "CAS CS 503", core.Meeting{Days: "T", StartTime: "10:00", EndTime: "11:00"})
		noDays := section("nodays", "CAS CS 504", core.Meeting{StartTime: "10:00", EndTime: "11:00"})
		noTimes := section("notimes", "CAS CS 505", core.Meeting{Days: "MWF"})

		assert.Empty(t, Detect([]core.Section{tba1, tba2, tue, noDays}))
		assert.Empty(t, Detect([]core.Section{cs, noTimes}))
	})

	t.Run("scheduled meeting still checked alongside TBA", func(t *testing.T) {
		mixed := section("mixed", "CAS CS 506",
			core.Meeting{Days: "TBA", StartTime: "10:00", EndTime: "11:00"},
			core.Meeting{Days: "W", StartTime: "10:30", EndTime: "11:00"},
		)
		got := Detect([]core.Section{mixed, cs})
		require.Len(t, got, 1)
		assert.Equal(t, "W", got[0].OverlapDay)
	})
}

func TestEvents(t *testing.T) {
	newEvents := []core.Event{
		{CourseID: "ma", Day: "Monday", StartMinutes: 630, EndMinutes: 690},
		{CourseID: "ma", Day: "Wednesday", StartMinutes: 630, EndMinutes: 690},
	}
	existing := []core.Event{
		{CourseID: "cs", Day: "Monday", StartMinutes: 600, EndMinutes: 660},
		{CourseID: "cs", Day: "Tuesday", StartMinutes: 600, EndMinutes: 660},
	}

	got := Events(newEvents, existing)
	require.Len(t, got, 1)
	assert.Equal(t, "Monday", got[0].Day)
	assert.Equal(t, 630, got[0].OverlapStart)
	assert.Equal(t, 660, got[0].OverlapEnd)
	assert.Equal(t, 30, got[0].OverlapMinutes())
	assert.Equal(t, "ma", got[0].Event1.CourseID)
	assert.Equal(t, "cs", got[0].Event2.CourseID)

	assert.Empty(t, Events(newEvents, newEvents))
}
