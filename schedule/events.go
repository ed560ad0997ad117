package schedule

import (
	"sort"

	"github.com/poiesic/coursegrid/core"
)

// expandEvents turns each meeting of s into one event per weekday. Meetings
// with no days, "TBA" days or no parseable times produce nothing.
func expandEvents(s *core.Section, color string) []core.Event {
	var events []core.Event
	for _, m := range s.Schedule {
		if !m.Scheduled() {
			continue
		}

		start := core.ParseTimeToMinutes(m.StartTime)
		end := core.ParseTimeToMinutes(m.EndTime)

		for _, day := range core.ParseDaysToFullNames(m.Days) {
			events = append(events, core.Event{
				CourseID:     s.ID,
				CourseCode:   s.Code,
				CourseTitle:  s.Title,
				Section:      s.Section,
				SectionType:  s.SectionType,
				Professor:    s.Professor,
				Day:          day,
				StartMinutes: start,
				EndMinutes:   end,
				StartTime:    m.StartTime,
				EndTime:      m.EndTime,
				Location:     m.Location,
				Color:        color,
			})
		}
	}
	return events
}

// assignColumns places one day's events into side-by-side columns. Events are
// taken in (start, end) order and each goes into the first column that is free
// by its start time, or a new column when none is.
//
//	12:00-13:00 -> column 0
//	12:30-14:00 -> column 1
//	13:30-15:00 -> column 0
func assignColumns(events []core.Event) []core.Event {
	sorted := append([]core.Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartMinutes != sorted[j].StartMinutes {
			return sorted[i].StartMinutes < sorted[j].StartMinutes
		}
		return sorted[i].EndMinutes < sorted[j].EndMinutes
	})

	var columnEnds []int
	for i := range sorted {
		ev := &sorted[i]
		placed := false
		for col, end := range columnEnds {
			if ev.StartMinutes >= end {
				ev.Column = col
				columnEnds[col] = ev.EndMinutes
				placed = true
				break
			}
		}
		if !placed {
			ev.Column = len(columnEnds)
			columnEnds = append(columnEnds, ev.EndMinutes)
		}
	}

	total := max(len(columnEnds), 1)
	for i := range sorted {
		sorted[i].TotalColumns = total
	}
	return sorted
}
