package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/poiesic/coursegrid/core"
)

// Format identifies a catalog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the catalog format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Decode reads a catalog in the given format.
func Decode(r io.Reader, format Format) ([]*core.Section, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatCSV:
		return DecodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// DecodeJSON reads a JSON array of sections with snake_case keys.
func DecodeJSON(r io.Reader) ([]*core.Section, error) {
	var sections []*core.Section
	if err := json.NewDecoder(r).Decode(&sections); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
	}

	// A literal null entry decodes to a nil pointer.
	out := sections[:0]
	for _, s := range sections {
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// catalogRow is one CSV row. Each row carries a single meeting; sections with
// several meetings span several rows sharing an id.
type catalogRow struct {
	ID              string `csv:"id"`
	Code            string `csv:"code"`
	Title           string `csv:"title"`
	Description     string `csv:"description"`
	Section         string `csv:"section"`
	Professor       string `csv:"professor"`
	Term            string `csv:"term"`
	Credits         int    `csv:"credits"`
	HubUnits        string `csv:"hub_units"`
	Department      string `csv:"department"`
	College         string `csv:"college"`
	Status          string `csv:"status"`
	EnrollmentCap   int    `csv:"enrollment_cap"`
	EnrollmentTotal int    `csv:"enrollment_total"`
	SectionType     string `csv:"section_type"`
	ClassNumber     int    `csv:"class_nbr"`
	Days            string `csv:"days"`
	StartTime       string `csv:"start_time"`
	EndTime         string `csv:"end_time"`
	Location        string `csv:"location"`
}

func (row *catalogRow) meeting() (core.Meeting, bool) {
	m := core.Meeting{
		Days:      strings.TrimSpace(row.Days),
		StartTime: strings.TrimSpace(row.StartTime),
		EndTime:   strings.TrimSpace(row.EndTime),
		Location:  strings.TrimSpace(row.Location),
	}
	if m.Days == "" && m.StartTime == "" && m.EndTime == "" && m.Location == "" {
		return m, false
	}
	return m, true
}

func (row *catalogRow) section() *core.Section {
	return &core.Section{
		ID:              strings.TrimSpace(row.ID),
		Code:            strings.TrimSpace(row.Code),
		Title:           row.Title,
		Description:     row.Description,
		Section:         strings.TrimSpace(row.Section),
		Professor:       row.Professor,
		Term:            strings.TrimSpace(row.Term),
		Credits:         row.Credits,
		HubUnits:        splitHubUnits(row.HubUnits),
		Department:      strings.TrimSpace(row.Department),
		College:         strings.TrimSpace(row.College),
		Status:          strings.TrimSpace(row.Status),
		EnrollmentCap:   row.EnrollmentCap,
		EnrollmentTotal: row.EnrollmentTotal,
		SectionType:     strings.TrimSpace(row.SectionType),
		ClassNumber:     row.ClassNumber,
	}
}

// DecodeCSV reads a catalog with one row per meeting. Rows sharing an id are
// merged into one section in first-seen order; the first row supplies every
// field except the meetings.
func DecodeCSV(r io.Reader) ([]*core.Section, error) {
	var rows []*catalogRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
	}

	var sections []*core.Section
	byID := make(map[string]*core.Section, len(rows))
	for _, row := range rows {
		id := strings.TrimSpace(row.ID)
		section, seen := byID[id]
		if !seen || id == "" {
			section = row.section()
			sections = append(sections, section)
			if id != "" {
				byID[id] = section
			}
		}
		if m, ok := row.meeting(); ok {
			section.Schedule = append(section.Schedule, m)
		}
	}
	return sections, nil
}

func splitHubUnits(s string) []string {
	var units []string
	for _, unit := range strings.Split(s, ";") {
		if unit = strings.TrimSpace(unit); unit != "" {
			units = append(units, unit)
		}
	}
	return units
}
