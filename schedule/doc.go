// Package schedule maintains the working set of selected course sections.
//
// An Engine detects meeting overlaps as sections are added, lays meetings out
// as colored per-day events with side-by-side columns for concurrent events,
// and exports the whole schedule as a snapshot. Validate checks a candidate
// selection without modifying any engine.
package schedule
