package index

import (
	"sort"

	"github.com/RoaringBitmap/roaring"
	"github.com/poiesic/coursegrid/core"
)

// Field identifies a filterable section attribute.
type Field int

const (
	FieldSubject Field = iota
	FieldTerm
	FieldHub
	FieldCollege
	FieldStatus
	numFields
)

func (f Field) String() string {
	switch f {
	case FieldSubject:
		return "subject"
	case FieldTerm:
		return "term"
	case FieldHub:
		return "hub"
	case FieldCollege:
		return "college"
	case FieldStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Filters holds the requested values per field. Values within a field are
// OR-ed, fields are AND-ed, and an empty list leaves the field unconstrained.
type Filters struct {
	Subjects []string
	Terms    []string
	Hubs     []string
	Colleges []string
	Statuses []string
}

func (f Filters) values(field Field) []string {
	switch field {
	case FieldSubject:
		return f.Subjects
	case FieldTerm:
		return f.Terms
	case FieldHub:
		return f.Hubs
	case FieldCollege:
		return f.Colleges
	case FieldStatus:
		return f.Statuses
	}
	return nil
}

// IsEmpty reports whether no field carries a requested value.
func (f Filters) IsEmpty() bool {
	for field := Field(0); field < numFields; field++ {
		if len(f.values(field)) > 0 {
			return false
		}
	}
	return true
}

// Bitmap maps each field value to the set of section ordinals carrying it.
type Bitmap struct {
	fields [numFields]map[string]*roaring.Bitmap
	all    *roaring.Bitmap
}

// BuildBitmap indexes sections by their position in the slice.
func BuildBitmap(sections []core.Section) *Bitmap {
	b := &Bitmap{all: roaring.New()}
	for i := range b.fields {
		b.fields[i] = make(map[string]*roaring.Bitmap)
	}

	for i := range sections {
		s := &sections[i]
		ord := uint32(i)
		b.all.Add(ord)
		b.add(FieldSubject, s.Department, ord)
		b.add(FieldTerm, s.Term, ord)
		b.add(FieldCollege, s.College, ord)
		if s.Status != "" {
			b.add(FieldStatus, s.Status, ord)
		}
		for _, hub := range s.HubUnits {
			b.add(FieldHub, hub, ord)
		}
	}
	return b
}

func (b *Bitmap) add(field Field, value string, ord uint32) {
	bm, ok := b.fields[field][value]
	if !ok {
		bm = roaring.New()
		b.fields[field][value] = bm
	}
	bm.Add(ord)
}

// Filter returns the ordinals matching every constrained field. A field whose
// requested values are all unknown does not constrain the result.
func (b *Bitmap) Filter(f Filters) *roaring.Bitmap {
	result := b.all.Clone()

	for field := Field(0); field < numFields; field++ {
		values := f.values(field)
		if len(values) == 0 {
			continue
		}

		union := roaring.New()
		for _, v := range values {
			if bm, ok := b.fields[field][v]; ok {
				union.Or(bm)
			}
		}

		if !union.IsEmpty() {
			result.And(union)
		}
	}
	return result
}

// Values returns the sorted distinct values observed for field.
func (b *Bitmap) Values(field Field) []string {
	if field < 0 || field >= numFields {
		return nil
	}
	values := make([]string, 0, len(b.fields[field]))
	for v := range b.fields[field] {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
