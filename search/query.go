package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring"
	"github.com/poiesic/coursegrid/core"
)

// minScore is the exclusive lower bound for a ranked match to be returned.
const minScore = 50

// Search returns up to limit sections matching query within filters. An empty
// query lists the filtered sections in sortBy order; otherwise results are
// ranked by fuzzy score, best first.
func (idx *Index) Search(query string, filters Filters, sortBy SortOrder, limit int) []core.Section {
	return idx.SearchWithMonitor(query, filters, sortBy, limit, nil)
}

// SearchWithMonitor is Search with a monitor observing each stage.
func (idx *Index) SearchWithMonitor(query string, filters Filters, sortBy SortOrder, limit int, monitor SearchMonitor) []core.Section {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query, filters)

	var results []core.Section
	if limit > 0 {
		results = idx.collect(idx.match(query, filters, sortBy, limit, monitor))
	} else {
		results = []core.Section{}
	}

	monitor.Finish(results)
	return results
}

// SearchGrouped runs the search pipeline over every match, groups the results
// by course and returns one page of groups along with the total group count.
func (idx *Index) SearchGrouped(query string, filters Filters, sortBy SortOrder, limit, offset int) ([]core.GroupedCourse, int) {
	return idx.SearchGroupedWithMonitor(query, filters, sortBy, limit, offset, nil)
}

// SearchGroupedWithMonitor is SearchGrouped with a monitor observing each stage.
func (idx *Index) SearchGroupedWithMonitor(query string, filters Filters, sortBy SortOrder, limit, offset int, monitor SearchMonitor) ([]core.GroupedCourse, int) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query, filters)

	sections := idx.collect(idx.match(query, filters, sortBy, -1, monitor))
	monitor.Finish(sections)

	groups := GroupSections(sections)
	switch sortBy {
	case SortCode:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Code < groups[j].Code })
	case SortTitle:
		sort.SliceStable(groups, func(i, j int) bool {
			return strings.ToLower(groups[i].Title) < strings.ToLower(groups[j].Title)
		})
	}

	total := len(groups)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= total {
		return []core.GroupedCourse{}, total
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return groups[offset:end], total
}

// match returns matching ordinals. A negative limit keeps every match.
func (idx *Index) match(query string, filters Filters, sortBy SortOrder, limit int, monitor SearchMonitor) []uint32 {
	filtered := idx.bitmap.Filter(filters)
	monitor.AfterFilter(filtered.GetCardinality())

	q := strings.TrimSpace(query)
	if q == "" {
		return idx.ordered(filtered, sortBy, limit)
	}

	candidates := idx.candidates(q)
	candidates.And(filtered)
	monitor.AfterCandidates(candidates.GetCardinality())
	if candidates.IsEmpty() {
		return nil
	}

	matches := idx.rank(q, candidates, limit)
	ranked := make([]Match, len(matches))
	for i, m := range matches {
		ranked[i] = Match{ID: idx.sections[m.ord].ID, Score: m.score}
	}
	monitor.AfterRanking(ranked)

	ords := make([]uint32, len(matches))
	for i, m := range matches {
		ords[i] = m.ord
	}
	return ords
}

func (idx *Index) candidates(q string) *roaring.Bitmap {
	n := utf8.RuneCountInString(q)
	if n < 3 {
		return idx.prefix.Lookup(q)
	}
	return idx.trigram.Candidates(q, max(1, n/4))
}

type scored struct {
	ord   uint32
	score int
}

// rank scores candidates, keeps the best 2*limit, drops weak matches and
// truncates to limit. Ties keep ordinal order.
func (idx *Index) rank(q string, candidates *roaring.Bitmap, limit int) []scored {
	matches := make([]scored, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		ord := it.Next()
		matches = append(matches, scored{ord: ord, score: idx.scorer.Score(q, idx.searchTexts[ord])})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	if limit >= 0 && len(matches)/2 >= limit {
		matches = matches[:2*limit]
	}

	kept := matches[:0]
	for _, m := range matches {
		if m.score > minScore {
			kept = append(kept, m)
		}
	}
	if limit >= 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// ordered lists the ordinals in filtered following sortBy, up to limit.
func (idx *Index) ordered(filtered *roaring.Bitmap, sortBy SortOrder, limit int) []uint32 {
	capacity := int(filtered.GetCardinality())
	if limit >= 0 && limit < capacity {
		capacity = limit
	}
	out := make([]uint32, 0, capacity)

	order, ok := idx.sorted[sortBy]
	if !ok {
		it := filtered.Iterator()
		for it.HasNext() && (limit < 0 || len(out) < limit) {
			out = append(out, it.Next())
		}
		return out
	}

	for _, ord := range order {
		if limit >= 0 && len(out) >= limit {
			break
		}
		if filtered.Contains(ord) {
			out = append(out, ord)
		}
	}
	return out
}

func (idx *Index) collect(ords []uint32) []core.Section {
	out := make([]core.Section, len(ords))
	for i, ord := range ords {
		out[i] = idx.sections[ord]
	}
	return out
}
