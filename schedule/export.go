package schedule

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/poiesic/coursegrid/core"
)

// CourseSummary is the exported view of a selected section.
type CourseSummary struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Title     string `json:"title"`
	Section   string `json:"section"`
	Credits   int    `json:"credits"`
	Professor string `json:"professor"`
	Term      string `json:"term"`
}

// ConflictSummary is the exported view of a ScheduleConflict.
type ConflictSummary struct {
	Course1ID      string `json:"course1_id"`
	Course1Code    string `json:"course1_code"`
	Course2ID      string `json:"course2_id"`
	Course2Code    string `json:"course2_code"`
	Day            string `json:"day"`
	OverlapMinutes int    `json:"overlap_minutes"`
}

// ScheduleExport is a point-in-time snapshot of the schedule.
type ScheduleExport struct {
	Courses      []CourseSummary   `json:"courses"`
	Events       []core.Event      `json:"events"`
	Conflicts    []ConflictSummary `json:"conflicts"`
	TotalCredits int               `json:"total_credits"`
	CourseCount  int               `json:"course_count"`
	HasConflicts bool              `json:"has_conflicts"`
}

// Export snapshots the schedule under a single lock.
func (e *Engine) Export() ScheduleExport {
	e.mu.Lock()
	defer e.mu.Unlock()

	courses := e.coursesLocked()
	out := ScheduleExport{
		Courses:      make([]CourseSummary, len(courses)),
		Events:       e.eventsLocked(),
		TotalCredits: e.totalCreditsLocked(),
		CourseCount:  len(courses),
	}
	for i, s := range courses {
		out.Courses[i] = CourseSummary{
			ID:        s.ID,
			Code:      s.Code,
			Title:     s.Title,
			Section:   s.Section,
			Credits:   s.Credits,
			Professor: s.Professor,
			Term:      s.Term,
		}
	}
	if out.Events == nil {
		out.Events = []core.Event{}
	}

	conflicts := e.conflictsLocked()
	out.Conflicts = SummarizeConflicts(conflicts)
	out.HasConflicts = len(conflicts) > 0
	return out
}

// SummarizeConflicts converts conflicts to their exported view. The result is
// never nil.
func SummarizeConflicts(conflicts []core.ScheduleConflict) []ConflictSummary {
	out := make([]ConflictSummary, len(conflicts))
	for i, c := range conflicts {
		out[i] = ConflictSummary{
			Course1ID:      c.Event1.CourseID,
			Course1Code:    c.Event1.CourseCode,
			Course2ID:      c.Event2.CourseID,
			Course2Code:    c.Event2.CourseCode,
			Day:            c.Day,
			OverlapMinutes: c.OverlapMinutes(),
		}
	}
	return out
}

type eventRow struct {
	CourseID     string `csv:"course_id"`
	CourseCode   string `csv:"course_code"`
	CourseTitle  string `csv:"course_title"`
	Section      string `csv:"section"`
	SectionType  string `csv:"section_type"`
	Professor    string `csv:"professor"`
	Day          string `csv:"day"`
	StartTime    string `csv:"start_time"`
	EndTime      string `csv:"end_time"`
	StartMinutes int    `csv:"start_minutes"`
	EndMinutes   int    `csv:"end_minutes"`
	Location     string `csv:"location"`
	Color        string `csv:"color"`
	Column       int    `csv:"column"`
	TotalColumns int    `csv:"total_columns"`
}

// WriteEventsCSV writes events as CSV rows with a header line.
func WriteEventsCSV(w io.Writer, events []core.Event) error {
	rows := make([]*eventRow, len(events))
	for i := range events {
		ev := &events[i]
		rows[i] = &eventRow{
			CourseID:     ev.CourseID,
			CourseCode:   ev.CourseCode,
			CourseTitle:  ev.CourseTitle,
			Section:      ev.Section,
			SectionType:  ev.SectionType,
			Professor:    ev.Professor,
			Day:          ev.Day,
			StartTime:    ev.StartTime,
			EndTime:      ev.EndTime,
			StartMinutes: ev.StartMinutes,
			EndMinutes:   ev.EndMinutes,
			Location:     ev.Location,
			Color:        ev.Color,
			Column:       ev.Column,
			TotalColumns: ev.TotalColumns,
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing events csv: %w", err)
	}
	return nil
}
