// Package conflict implements the pairwise day/time overlap test shared by the
// course index and the schedule engine.
package conflict

import (
	"sort"
	"strings"

	"github.com/poiesic/coursegrid/core"
)

// Detect checks every unordered pair of sections and reports at most one
// conflict per pair: the first overlapping meeting pair found.
func Detect(sections []core.Section) []core.Conflict {
	var conflicts []core.Conflict
	for i := range sections {
		for j := i + 1; j < len(sections); j++ {
			if c, ok := Check(&sections[i], &sections[j]); ok {
				conflicts = append(conflicts, c)
			}
		}
	}
	return conflicts
}

// Check returns the first conflict between a and b, if any. A section never
// conflicts with itself, and unscheduled meetings never conflict.
func Check(a, b *core.Section) (core.Conflict, bool) {
	if a.ID == b.ID {
		return core.Conflict{}, false
	}
	for _, m1 := range a.Schedule {
		if !m1.Scheduled() {
			continue
		}
		for _, m2 := range b.Schedule {
			if !m2.Scheduled() {
				continue
			}
			day := DaysOverlap(m1.Days, m2.Days)
			if day != "" && TimesOverlap(m1, m2) {
				return core.Conflict{
					Course1ID:   a.ID,
					Course2ID:   b.ID,
					Course1Code: a.Code,
					Course2Code: b.Code,
					OverlapDay:  day,
					OverlapTime: m1.StartTime + "-" + m1.EndTime,
				}, true
			}
		}
	}
	return core.Conflict{}, false
}

// DaysOverlap returns the day codes two patterns share, sorted and joined with
// ", ", or "" when they share none.
func DaysOverlap(days1, days2 string) string {
	d1 := core.ParseDaysToSet(days1)
	d2 := core.ParseDaysToSet(days2)

	var common []string
	for code := range d1 {
		if _, ok := d2[code]; ok {
			common = append(common, code)
		}
	}
	if len(common) == 0 {
		return ""
	}
	sort.Strings(common)
	return strings.Join(common, ", ")
}

// TimesOverlap reports whether two meetings' time ranges intersect.
func TimesOverlap(m1, m2 core.Meeting) bool {
	s1 := core.ParseTimeToMinutes(m1.StartTime)
	e1 := core.ParseTimeToMinutes(m1.EndTime)
	s2 := core.ParseTimeToMinutes(m2.StartTime)
	e2 := core.ParseTimeToMinutes(m2.EndTime)
	return s1 < e2 && s2 < e1
}

// Events compares two event lists and returns one conflict per overlapping
// event pair. Overlap bounds are the later start and the earlier end.
func Events(newEvents, existing []core.Event) []core.ScheduleConflict {
	var conflicts []core.ScheduleConflict
	for i := range newEvents {
		e1 := &newEvents[i]
		for j := range existing {
			e2 := &existing[j]
			if e1.CourseID == e2.CourseID || !e1.Overlaps(e2) {
				continue
			}
			conflicts = append(conflicts, core.ScheduleConflict{
				Event1:       *e1,
				Event2:       *e2,
				Day:          e1.Day,
				OverlapStart: max(e1.StartMinutes, e2.StartMinutes),
				OverlapEnd:   min(e1.EndMinutes, e2.EndMinutes),
			})
		}
	}
	return conflicts
}
