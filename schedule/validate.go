package schedule

import (
	"github.com/poiesic/coursegrid/conflict"
	"github.com/poiesic/coursegrid/core"
)

// Catalog resolves section ids to sections.
type Catalog interface {
	Get(id string) (core.Section, bool)
}

// Validation reports whether a set of sections can be taken together.
type Validation struct {
	Valid        bool            `json:"valid"`
	Conflicts    []core.Conflict `json:"conflicts"`
	TotalCredits int             `json:"total_credits"`
}

// Validate checks the sections named by ids for time conflicts without
// touching any schedule. Unknown ids are ignored.
func Validate(catalog Catalog, ids []string) Validation {
	sections := resolve(catalog, ids)

	v := Validation{Conflicts: conflict.Detect(sections)}
	if v.Conflicts == nil {
		v.Conflicts = []core.Conflict{}
	}
	v.Valid = len(v.Conflicts) == 0
	for _, s := range sections {
		v.TotalCredits += s.Credits
	}
	return v
}

// Set replaces the schedule with the sections named by ids, added in order.
// Unknown ids are ignored. It returns the conflicts reported while adding.
func (e *Engine) Set(catalog Catalog, ids []string) []core.ScheduleConflict {
	sections := resolve(catalog, ids)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.clearLocked()
	var conflicts []core.ScheduleConflict
	for _, s := range sections {
		conflicts = append(conflicts, e.addLocked(s)...)
	}
	return conflicts
}

func resolve(catalog Catalog, ids []string) []core.Section {
	sections := make([]core.Section, 0, len(ids))
	for _, id := range ids {
		if s, ok := catalog.Get(id); ok {
			sections = append(sections, s)
		}
	}
	return sections
}
