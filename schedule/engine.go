package schedule

import (
	"log/slog"
	"sync"

	"github.com/poiesic/coursegrid/conflict"
	"github.com/poiesic/coursegrid/core"
)

// DefaultPalette is the color cycle used for course events.
var DefaultPalette = []string{
	"#CC0000",
	"#3B82F6",
	"#10B981",
	"#8B5CF6",
	"#F59E0B",
	"#EC4899",
	"#06B6D4",
	"#84CC16",
	"#F97316",
	"#6366F1",
}

// Engine holds the working set of selected sections. All methods are safe for
// concurrent use; each runs as a single critical section.
type Engine struct {
	mu         sync.Mutex
	order      []string
	courses    map[string]core.Section
	palette    []string
	colorIndex int
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithPalette sets the colors assigned to sections in insertion order.
// Default is DefaultPalette. An empty palette is rejected.
func WithPalette(colors ...string) Option {
	return func(e *Engine) error {
		if len(colors) == 0 {
			return ErrEmptyPalette
		}
		e.palette = append([]string(nil), colors...)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates an empty schedule.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		courses: make(map[string]core.Section),
		palette: DefaultPalette,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// AddCourse adds section and returns its conflicts with the sections already
// present. Re-adding an id replaces the stored section and keeps its position.
func (e *Engine) AddCourse(section core.Section) []core.ScheduleConflict {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.addLocked(section)
}

func (e *Engine) addLocked(section core.Section) []core.ScheduleConflict {
	newEvents := expandEvents(&section, "")
	var conflicts []core.ScheduleConflict
	for _, id := range e.order {
		existing := e.courses[id]
		conflicts = append(conflicts, conflict.Events(newEvents, expandEvents(&existing, ""))...)
	}

	if _, ok := e.courses[section.ID]; !ok {
		e.order = append(e.order, section.ID)
	}
	e.courses[section.ID] = section

	if len(conflicts) > 0 {
		e.logger.Debug("course added with conflicts", "id", section.ID, "conflicts", len(conflicts))
	}
	return conflicts
}

// RemoveCourse removes the section with the given id, reporting whether it
// was present.
func (e *Engine) RemoveCourse(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.courses[id]; !ok {
		return false
	}
	delete(e.courses, id)
	for i, existing := range e.order {
		if existing == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every section and restarts the color cycle.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clearLocked()
}

func (e *Engine) clearLocked() {
	e.order = nil
	e.courses = make(map[string]core.Section)
	e.colorIndex = 0
}

// Course returns the section with the given id.
func (e *Engine) Course(id string) (core.Section, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.courses[id]
	return s, ok
}

// Courses returns the sections in insertion order.
func (e *Engine) Courses() []core.Section {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.coursesLocked()
}

func (e *Engine) coursesLocked() []core.Section {
	out := make([]core.Section, len(e.order))
	for i, id := range e.order {
		out[i] = e.courses[id]
	}
	return out
}

// IDs returns the selected section ids in insertion order.
func (e *Engine) IDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.order...)
}

// Events lays out every meeting of the schedule: colored per section, grouped
// by day in week order and assigned side-by-side columns within each day.
func (e *Engine) Events() []core.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.eventsLocked()
}

func (e *Engine) eventsLocked() []core.Event {
	colors := make(map[string]string, len(e.order))
	for _, id := range e.order {
		colors[id] = e.nextColor()
	}
	e.colorIndex = 0

	byDay := make(map[string][]core.Event)
	for _, id := range e.order {
		s := e.courses[id]
		for _, ev := range expandEvents(&s, colors[id]) {
			byDay[ev.Day] = append(byDay[ev.Day], ev)
		}
	}

	var events []core.Event
	for _, day := range core.DayOrder {
		if dayEvents, ok := byDay[day]; ok {
			events = append(events, assignColumns(dayEvents)...)
		}
	}
	return events
}

func (e *Engine) nextColor() string {
	color := e.palette[e.colorIndex%len(e.palette)]
	e.colorIndex++
	return color
}

// EventsByDay returns Events keyed by weekday. Every day of the week is
// present, possibly with no events.
func (e *Engine) EventsByDay() map[string][]core.Event {
	byDay := make(map[string][]core.Event, len(core.DayOrder))
	for _, day := range core.DayOrder {
		byDay[day] = []core.Event{}
	}
	for _, ev := range e.Events() {
		byDay[ev.Day] = append(byDay[ev.Day], ev)
	}
	return byDay
}

// AllConflicts returns the event overlaps between every pair of sections.
func (e *Engine) AllConflicts() []core.ScheduleConflict {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.conflictsLocked()
}

func (e *Engine) conflictsLocked() []core.ScheduleConflict {
	expanded := make([][]core.Event, len(e.order))
	for i, id := range e.order {
		s := e.courses[id]
		expanded[i] = expandEvents(&s, "")
	}

	var conflicts []core.ScheduleConflict
	for i := range expanded {
		for j := i + 1; j < len(expanded); j++ {
			conflicts = append(conflicts, conflict.Events(expanded[i], expanded[j])...)
		}
	}
	return conflicts
}

// TotalCredits sums the credits of every selected section.
func (e *Engine) TotalCredits() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.totalCreditsLocked()
}

func (e *Engine) totalCreditsLocked() int {
	total := 0
	for _, s := range e.courses {
		total += s.Credits
	}
	return total
}

// CourseCount returns the number of selected sections.
func (e *Engine) CourseCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.order)
}
