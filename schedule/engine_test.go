package schedule

import (
	"bytes"
	"encoding/csv"
	"sync"
	"testing"

	"github.com/poiesic/coursegrid/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course(id, code string, credits int, meetings ...core.Meeting) core.Section {
	return core.Section{ID: id, Code: code, Title: code + " title", Section: "A1", Credits: credits, Term: "Fall 2025", Schedule: meetings}
}

func meeting(days, start, end string) core.Meeting {
	return core.Meeting{Days: days, StartTime: start, EndTime: end, Location: "CAS 211"}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(opts...)
	require.NoError(t, err)
	return e
}

type mapCatalog map[string]core.Section

func (m mapCatalog) Get(id string) (core.Section, bool) {
	s, ok := m[id]
	return s, ok
}

var (
	cs111 = course("cs111", "CAS CS 111", 4, meeting("MWF", "10:00", "11:00"))
	ma123 = course("ma123", "CAS MA 123", 4, meeting("MWF", "10:30", "11:30"))
	ph100 = course("ph100", "CAS PH 100", 4, meeting("TuTh", "10:00", "11:00"))
)

func TestNewEngine(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		e := newTestEngine(t)
		assert.Equal(t, DefaultPalette, e.palette)
		assert.Equal(t, 0, e.CourseCount())
	})

	t.Run("empty palette", func(t *testing.T) {
		_, err := NewEngine(WithPalette())
		assert.ErrorIs(t, err, ErrEmptyPalette)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		e := newTestEngine(t, WithLogger(nil))
		assert.NotNil(t, e.logger)
	})
}

func TestEngine_AddCourse(t *testing.T) {
	t.Run("overlap on every shared day", func(t *testing.T) {
		e := newTestEngine(t)
		assert.Empty(t, e.AddCourse(cs111))

		conflicts := e.AddCourse(ma123)
		require.Len(t, conflicts, 3)
		days := []string{}
		for _, c := range conflicts {
			days = append(days, c.Day)
			assert.Equal(t, 30, c.OverlapMinutes())
			assert.Equal(t, 630, c.OverlapStart)
			assert.Equal(t, 660, c.OverlapEnd)
			assert.Equal(t, "ma123", c.Event1.CourseID)
			assert.Equal(t, "cs111", c.Event2.CourseID)
		}
		assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, days)
	})

	t.Run("disjoint days", func(t *testing.T) {
		e := newTestEngine(t)
		e.AddCourse(cs111)
		assert.Empty(t, e.AddCourse(ph100))
	})

	t.Run("re-adding replaces in place", func(t *testing.T) {
		e := newTestEngine(t)
		e.AddCourse(cs111)
		e.AddCourse(ph100)

		moved := cs111
		moved.Schedule = []core.Meeting{meeting("TuTh", "10:00", "11:00")}
		conflicts := e.AddCourse(moved)
		require.Len(t, conflicts, 2)
		assert.Equal(t, "ph100", conflicts[0].Event2.CourseID)

		courses := e.Courses()
		require.Len(t, courses, 2)
		assert.Equal(t, "cs111", courses[0].ID)
		assert.Equal(t, "TuTh", courses[0].Schedule[0].Days)
	})
}

func TestEngine_RemoveAndClear(t *testing.T) {
	e := newTestEngine(t)
	e.AddCourse(cs111)
	e.AddCourse(ma123)
	e.AddCourse(ph100)

	assert.True(t, e.RemoveCourse("ma123"))
	assert.False(t, e.RemoveCourse("ma123"))
	assert.Equal(t, []string{"cs111", "ph100"}, e.IDs())

	_, ok := e.Course("ma123")
	assert.False(t, ok)
	got, ok := e.Course("cs111")
	require.True(t, ok)
	assert.Equal(t, cs111, got)

	assert.Equal(t, 8, e.TotalCredits())
	assert.Equal(t, 2, e.CourseCount())

	e.Clear()
	assert.Equal(t, 0, e.CourseCount())
	assert.Equal(t, 0, e.TotalCredits())
	assert.Empty(t, e.Events())
	assert.Empty(t, e.Courses())
}

func TestEngine_EventsColumns(t *testing.T) {
	e := newTestEngine(t)
	e.AddCourse(course("ph", "CAS PH 100", 4, meeting("M", "13:30", "15:00")))
	e.AddCourse(course("cs", "CAS CS 111", 4, meeting("M", "12:00", "13:00")))
	e.AddCourse(course("ma", "CAS MA 225", 4, meeting("M", "12:30", "14:00")))

	events := e.Events()
	require.Len(t, events, 3)

	columns := map[string]int{}
	for _, ev := range events {
		columns[ev.CourseID] = ev.Column
		assert.Equal(t, 2, ev.TotalColumns)
		assert.Equal(t, "Monday", ev.Day)
	}
	assert.Equal(t, map[string]int{"cs": 0, "ma": 1, "ph": 0}, columns)
	assert.Equal(t, "cs", events[0].CourseID)
	assert.Equal(t, "ma", events[1].CourseID)
	assert.Equal(t, "ph", events[2].CourseID)
}

func TestEngine_EventsDayOrderAndColors(t *testing.T) {
	e := newTestEngine(t, WithPalette("#111111", "#222222"))
	e.AddCourse(course("a", "A", 1, meeting("F", "9:00", "10:00")))
	e.AddCourse(course("b", "B", 1, meeting("TuTh", "9:00", "10:00")))
	e.AddCourse(course("c", "C", 1, meeting("M", "9:00", "10:00")))

	events := e.Events()
	require.Len(t, events, 4)

	days := make([]string, len(events))
	colors := map[string]string{}
	for i, ev := range events {
		days[i] = ev.Day
		colors[ev.CourseID] = ev.Color
		assert.Equal(t, 1, ev.TotalColumns)
		assert.Equal(t, 0, ev.Column)
	}
	assert.Equal(t, []string{"Monday", "Tuesday", "Thursday", "Friday"}, days)
	assert.Equal(t, map[string]string{"a": "#111111", "b": "#222222", "c": "#111111"}, colors)

	// Colors restart on every call.
	again := e.Events()
	assert.Equal(t, events, again)
}

func TestEngine_EventsSkipsUnscheduledMeetings(t *testing.T) {
	e := newTestEngine(t)
	e.AddCourse(course("tba", "X", 4,
		meeting("TBA", "10:00", "11:00"),
		meeting("", "10:00", "11:00"),
		meeting("MWF", "", ""),
		meeting("MWF", "TBA", "TBA"),
	))
	e.AddCourse(course("ok", "Y", 4, meeting("tba", "10:00", "11:00"), meeting("Tu", "2:00 PM", "3:15 PM")))

	events := e.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "ok", events[0].CourseID)
	assert.Equal(t, "Tuesday", events[0].Day)
	assert.Equal(t, 840, events[0].StartMinutes)
	assert.Equal(t, 915, events[0].EndMinutes)
	assert.Equal(t, "2:00 PM", events[0].StartTime)
}

func TestEngine_EventsByDay(t *testing.T) {
	e := newTestEngine(t)
	e.AddCourse(cs111)

	byDay := e.EventsByDay()
	assert.Len(t, byDay, 7)
	assert.Len(t, byDay["Monday"], 1)
	assert.Empty(t, byDay["Tuesday"])
	assert.NotNil(t, byDay["Sunday"])
}

func TestEngine_AllConflicts(t *testing.T) {
	e := newTestEngine(t)
	e.AddCourse(cs111)
	e.AddCourse(ph100)
	e.AddCourse(ma123)

	conflicts := e.AllConflicts()
	require.Len(t, conflicts, 3)
	for _, c := range conflicts {
		assert.Equal(t, "cs111", c.Event1.CourseID)
		assert.Equal(t, "ma123", c.Event2.CourseID)
	}
}

func TestEngine_Export(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := newTestEngine(t).Export()
		assert.Empty(t, out.Courses)
		assert.NotNil(t, out.Events)
		assert.NotNil(t, out.Conflicts)
		assert.False(t, out.HasConflicts)
	})

	t.Run("populated", func(t *testing.T) {
		e := newTestEngine(t)
		e.AddCourse(cs111)
		e.AddCourse(ma123)

		out := e.Export()
		assert.Equal(t, 2, out.CourseCount)
		assert.Equal(t, 8, out.TotalCredits)
		assert.True(t, out.HasConflicts)
		require.Len(t, out.Courses, 2)
		assert.Equal(t, CourseSummary{ID: "cs111", Code: "CAS CS 111", Title: "CAS CS 111 title", Section: "A1", Credits: 4, Term: "Fall 2025"}, out.Courses[0])
		assert.Len(t, out.Events, 6)
		require.Len(t, out.Conflicts, 3)
		assert.Equal(t, ConflictSummary{
			Course1ID: "cs111", Course1Code: "CAS CS 111",
			Course2ID: "ma123", Course2Code: "CAS MA 123",
			Day: "Monday", OverlapMinutes: 30,
		}, out.Conflicts[0])
	})

	t.Run("re-adding exported courses reproduces the schedule", func(t *testing.T) {
		e := newTestEngine(t)
		e.AddCourse(cs111)
		e.AddCourse(ph100)
		e.AddCourse(ma123)
		before := e.Export()

		catalog := mapCatalog{"cs111": cs111, "ma123": ma123, "ph100": ph100}
		rebuilt := newTestEngine(t)
		ids := make([]string, len(before.Courses))
		for i, c := range before.Courses {
			ids[i] = c.ID
		}
		rebuilt.Set(catalog, ids)

		after := rebuilt.Export()
		assert.Equal(t, before.Events, after.Events)
		assert.Equal(t, before.Conflicts, after.Conflicts)
	})
}

func TestEngine_Set(t *testing.T) {
	catalog := mapCatalog{"cs111": cs111, "ma123": ma123, "ph100": ph100}
	e := newTestEngine(t)
	e.AddCourse(ph100)

	conflicts := e.Set(catalog, []string{"ma123", "missing", "cs111"})
	assert.Len(t, conflicts, 3)
	assert.Equal(t, []string{"ma123", "cs111"}, e.IDs())
}

func TestValidate(t *testing.T) {
	catalog := mapCatalog{"cs111": cs111, "ma123": ma123, "ph100": ph100}

	v := Validate(catalog, []string{"cs111", "ph100", "missing"})
	assert.True(t, v.Valid)
	assert.NotNil(t, v.Conflicts)
	assert.Empty(t, v.Conflicts)
	assert.Equal(t, 8, v.TotalCredits)

	v = Validate(catalog, []string{"cs111", "ma123"})
	assert.False(t, v.Valid)
	require.Len(t, v.Conflicts, 1)
	assert.Equal(t, "F, M, W", v.Conflicts[0].OverlapDay)
	assert.Equal(t, 8, v.TotalCredits)
}

func TestValidate_AgreesWithEngineOnTBA(t *testing.T) {
	tba := course("tba", "CAS CS 501", 4, meeting("TBA", "10:00", "11:00"))
	tue := course("tue", "CAS CS 502", 4, meeting("T", "10:00", "11:00"))
	catalog := mapCatalog{"tba": tba, "tue": tue}

	e := newTestEngine(t)
	assert.Empty(t, e.Set(catalog, []string{"tba", "tue"}))

	v := Validate(catalog, []string{"tba", "tue"})
	assert.True(t, v.Valid)
	assert.Empty(t, v.Conflicts)
}

func TestWriteEventsCSV(t *testing.T) {
	e := newTestEngine(t)
	e.AddCourse(cs111)

	var buf bytes.Buffer
	require.NoError(t, WriteEventsCSV(&buf, e.Events()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "course_id", records[0][0])
	assert.Equal(t, "cs111", records[1][0])
	assert.Contains(t, records[1], "Monday")
	assert.Contains(t, records[3], "Friday")
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := newTestEngine(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.AddCourse(cs111)
			e.Events()
			e.Export()
			e.RemoveCourse("cs111")
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, e.CourseCount())
}
