package search

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/poiesic/coursegrid/core"
)

// GroupSections folds discussion and lab sections under the lecture sections
// of the same course and term. Groups keep first-seen order.
//
// A secondary section attaches to the first primary whose section label starts
// with the same letters (A2 under A1). A secondary with no such primary
// attaches to every primary. When a course has no primary at all, its first
// secondary stands in for one. Sections of an unknown type are left out.
func GroupSections(sections []core.Section) []core.GroupedCourse {
	type key struct{ code, term string }
	var order []key
	buckets := make(map[key][]*core.Section)
	for i := range sections {
		k := key{sections[i].Code, sections[i].Term}
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], &sections[i])
	}

	var grouped []core.GroupedCourse
	for _, k := range order {
		var primaries, secondaries []*core.Section
		for _, s := range buckets[k] {
			switch {
			case s.IsPrimary():
				primaries = append(primaries, s)
			case s.IsSecondary():
				secondaries = append(secondaries, s)
			}
		}
		if len(primaries) == 0 && len(secondaries) == 0 {
			continue
		}
		if len(primaries) == 0 {
			primaries = secondaries[:1]
			secondaries = secondaries[1:]
		}

		byPrefix := make(map[string]int)
		for i, p := range primaries {
			prefix := sectionPrefix(p.Section)
			if _, seen := byPrefix[prefix]; prefix != "" && !seen {
				byPrefix[prefix] = i
			}
		}

		related := make([][]core.RelatedSection, len(primaries))
		for _, s := range secondaries {
			r := core.NewRelatedSection(s)
			if i, ok := byPrefix[sectionPrefix(s.Section)]; ok {
				related[i] = append(related[i], r)
				continue
			}
			for i := range related {
				related[i] = append(related[i], r)
			}
		}

		for i, p := range primaries {
			rs := related[i]
			if rs == nil {
				rs = []core.RelatedSection{}
			}
			sortRelated(rs)
			grouped = append(grouped, core.GroupedCourse{Section: *p, RelatedSections: rs})
		}
	}
	return grouped
}

// sectionPrefix returns the leading letters of a section label, uppercased.
func sectionPrefix(label string) string {
	end := strings.IndexFunc(label, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(label)
	}
	return strings.ToUpper(label[:end])
}

func sortRelated(rs []core.RelatedSection) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].SectionType != rs[j].SectionType {
			return rs[i].SectionType < rs[j].SectionType
		}
		ki, kj := labelKey(rs[i].Section), labelKey(rs[j].Section)
		if ki.letters != kj.letters {
			return ki.letters < kj.letters
		}
		return ki.number < kj.number
	})
}

type labelSortKey struct {
	letters string
	number  int
}

// labelKey splits "B12" into ("B", 12): the letters seen before the first
// digit, uppercased, and all digits read as one number (0 when there are
// none). Other characters are ignored, so "A-1" keys as ("A", 1).
func labelKey(label string) labelSortKey {
	var letters, digits strings.Builder
	for _, r := range label {
		switch {
		case unicode.IsLetter(r):
			if digits.Len() == 0 {
				letters.WriteRune(r)
			}
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		n = 0
	}
	return labelSortKey{letters: strings.ToUpper(letters.String()), number: n}
}
