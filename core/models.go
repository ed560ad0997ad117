package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a 64-bit content hash used for storage keys and catalog fingerprints.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Meeting is one recurring weekly time/place block of a section.
type Meeting struct {
	Days      string `json:"days"`       // "MWF", "TuTh", "MoWeFr"
	StartTime string `json:"start_time"` // "10:10", "2:30 PM", "1430"
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
}

// Scheduled reports whether the meeting has a real weekly slot. Meetings with
// no days, "TBA" days or no parseable times never appear on a calendar and
// never conflict.
func (m Meeting) Scheduled() bool {
	if m.Days == "" || strings.EqualFold(m.Days, "TBA") {
		return false
	}
	return ParseTimeToMinutes(m.StartTime) != 0 || ParseTimeToMinutes(m.EndTime) != 0
}

// Section is one schedulable course offering. Sections are immutable once loaded.
type Section struct {
	ID              string    `json:"id"`   // "CAS-CS-111-A1-Fall2025"
	Code            string    `json:"code"` // "CAS CS 111"
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Section         string    `json:"section"` // "A1"
	Professor       string    `json:"professor"`
	Term            string    `json:"term"`
	Credits         int       `json:"credits"`
	HubUnits        []string  `json:"hub_units"`
	Department      string    `json:"department"`
	College         string    `json:"college"`
	Schedule        []Meeting `json:"schedule"`
	Status          string    `json:"status"`
	EnrollmentCap   int       `json:"enrollment_cap"`
	EnrollmentTotal int       `json:"enrollment_total"`
	SectionType     string    `json:"section_type"`
	ClassNumber     int       `json:"class_nbr"`
}

// SearchText returns the combined text used for fuzzy matching.
func (s *Section) SearchText() string {
	return s.Code + " " + s.Title + " " + s.Professor + " " + s.Department + " " + strings.Join(s.HubUnits, " ")
}

// IsPrimary reports whether the section is lecture-equivalent and heads its
// own group.
func (s *Section) IsPrimary() bool {
	_, ok := PrimarySectionTypes[s.SectionType]
	return ok
}

// IsSecondary reports whether the section is grouped under a primary.
// Sections of an unknown type are neither.
func (s *Section) IsSecondary() bool {
	_, ok := SecondarySectionTypes[s.SectionType]
	return ok
}

// PrimarySectionTypes are the lecture-equivalent section types, including the
// untyped "" tag.
var PrimarySectionTypes = map[string]struct{}{
	"Lecture": {},
	"IND":     {},
	"DRS":     {},
	"EXP":     {},
	"MUO":     {},
	"PLB":     {},
	"THP":     {},
	"OTH":     {},
	"MUE":     {},
	"":        {},
}

// SecondarySectionTypes are grouped under a matching primary section.
var SecondarySectionTypes = map[string]struct{}{
	"Discussion": {},
	"Laboratory": {},
}

// Conflict is a time conflict between two sections found by a pairwise scan.
type Conflict struct {
	Course1ID   string `json:"course1_id"`
	Course2ID   string `json:"course2_id"`
	Course1Code string `json:"course1_code"`
	Course2Code string `json:"course2_code"`
	OverlapDay  string `json:"overlap_day"`
	OverlapTime string `json:"overlap_time"`
}

// RelatedSection is a secondary section attached to a primary one.
type RelatedSection struct {
	ID              string    `json:"id"`
	Section         string    `json:"section"`
	SectionType     string    `json:"section_type"`
	Professor       string    `json:"professor"`
	Schedule        []Meeting `json:"schedule"`
	Status          string    `json:"status"`
	EnrollmentCap   int       `json:"enrollment_cap"`
	EnrollmentTotal int       `json:"enrollment_total"`
}

// NewRelatedSection copies the fields of s that a related section carries.
func NewRelatedSection(s *Section) RelatedSection {
	return RelatedSection{
		ID:              s.ID,
		Section:         s.Section,
		SectionType:     s.SectionType,
		Professor:       s.Professor,
		Schedule:        s.Schedule,
		Status:          s.Status,
		EnrollmentCap:   s.EnrollmentCap,
		EnrollmentTotal: s.EnrollmentTotal,
	}
}

// GroupedCourse is a primary section together with its related sections.
type GroupedCourse struct {
	Section
	RelatedSections []RelatedSection `json:"related_sections"`
}

// Event is one weekday occurrence of a meeting, positioned for display.
type Event struct {
	CourseID     string `json:"course_id"`
	CourseCode   string `json:"course_code"`
	CourseTitle  string `json:"course_title"`
	Section      string `json:"section"`
	SectionType  string `json:"section_type"`
	Professor    string `json:"professor"`
	Day          string `json:"day"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Location     string `json:"location"`
	Color        string `json:"color"`
	Column       int    `json:"column"`
	TotalColumns int    `json:"total_columns"`
}

// Duration returns the length of the event in minutes.
func (e *Event) Duration() int {
	return e.EndMinutes - e.StartMinutes
}

// Overlaps reports whether two events share a day and a time range.
func (e *Event) Overlaps(other *Event) bool {
	if e.Day != other.Day {
		return false
	}
	return e.StartMinutes < other.EndMinutes && other.StartMinutes < e.EndMinutes
}

// ScheduleConflict is an overlap between two events of different sections.
type ScheduleConflict struct {
	Event1       Event
	Event2       Event
	Day          string
	OverlapStart int
	OverlapEnd   int
}

// OverlapMinutes returns the length of the overlap.
func (c *ScheduleConflict) OverlapMinutes() int {
	return c.OverlapEnd - c.OverlapStart
}
