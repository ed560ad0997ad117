package search

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/coursegrid/conflict"
	"github.com/poiesic/coursegrid/core"
	"github.com/poiesic/coursegrid/departments"
	"github.com/poiesic/coursegrid/index"
)

// SortOrder names a result ordering. Any value without a precomputed order,
// including SortRelevance, falls back to load order.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortCode      SortOrder = "code"
	SortTitle     SortOrder = "title"
	SortProfessor SortOrder = "professor"
	SortCredits   SortOrder = "credits"
)

// Filters restricts results by field value.
type Filters = index.Filters

// Index is an immutable searchable snapshot of the catalog. It is safe for
// concurrent use once NewIndex returns.
type Index struct {
	sections    []core.Section
	byID        map[string]uint32
	searchTexts []string

	trigram *index.Trigram
	bitmap  *index.Bitmap
	prefix  *index.Prefix
	sorted  map[SortOrder][]uint32

	displayTerms []string
	scorer       Scorer
	poolSize     int
	logger       *slog.Logger
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// WithScorer replaces the fuzzy scorer used for ranking.
// Default is PartialRatio.
func WithScorer(scorer Scorer) Option {
	return func(idx *Index) error {
		if scorer == nil {
			return ErrScorerRequired
		}
		idx.scorer = scorer
		return nil
	}
}

// WithDisplayTerms restricts Terms() to the given terms, in the given order.
// An empty list lists every indexed term.
func WithDisplayTerms(terms ...string) Option {
	return func(idx *Index) error {
		idx.displayTerms = append([]string(nil), terms...)
		return nil
	}
}

// WithPoolSize sets the number of workers used to build sub-indices.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(idx *Index) error {
		if size < 1 {
			size = 1
		}
		idx.poolSize = size
		return nil
	}
}

// NewIndex builds an index over sections. Ordinals are positions in the
// slice, so load order is preserved wherever no other order applies.
func NewIndex(sections []core.Section, opts ...Option) (*Index, error) {
	if uint64(len(sections)) > math.MaxUint32 {
		return nil, ErrTooManySections
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	idx := &Index{
		sections: append([]core.Section(nil), sections...),
		byID:     make(map[string]uint32, len(sections)),
		scorer:   PartialRatio{},
		poolSize: poolSize,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	idx.searchTexts = make([]string, len(idx.sections))
	for i := range idx.sections {
		s := &idx.sections[i]
		if prev, dup := idx.byID[s.ID]; dup {
			idx.logger.Warn("duplicate section id, keeping later entry", "id", s.ID, "first", prev, "later", i)
		}
		idx.byID[s.ID] = uint32(i)
		idx.searchTexts[i] = s.SearchText() + " " + departments.Name(s.Department) + " " +
			strings.ToLower(strings.ReplaceAll(s.Code, " ", ""))
	}

	if err := idx.build(); err != nil {
		return nil, err
	}

	idx.logger.Debug("index built",
		"sections", len(idx.sections),
		"subjects", len(idx.bitmap.Values(index.FieldSubject)),
		"terms", len(idx.bitmap.Values(index.FieldTerm)))
	return idx, nil
}

// build constructs the independent sub-indices concurrently.
func (idx *Index) build() error {
	pool, err := ants.NewPool(idx.poolSize)
	if err != nil {
		return fmt.Errorf("creating build pool: %w", err)
	}
	defer pool.Release()

	orders := []SortOrder{SortCode, SortTitle, SortProfessor, SortCredits}
	sorted := make([][]uint32, len(orders))

	tasks := []func(){
		func() {
			t := index.NewTrigram()
			for i, text := range idx.searchTexts {
				t.Add(uint32(i), text)
			}
			idx.trigram = t
		},
		func() { idx.bitmap = index.BuildBitmap(idx.sections) },
		func() { idx.prefix = index.BuildPrefix(idx.sections) },
	}
	for i, order := range orders {
		tasks = append(tasks, func() { sorted[i] = idx.sortedOrdinals(order) })
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			task()
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submitting build task: %w", err)
		}
	}
	wg.Wait()

	idx.sorted = make(map[SortOrder][]uint32, len(orders))
	for i, order := range orders {
		idx.sorted[order] = sorted[i]
	}
	return nil
}

func (idx *Index) sortedOrdinals(order SortOrder) []uint32 {
	ords := make([]uint32, len(idx.sections))
	for i := range ords {
		ords[i] = uint32(i)
	}

	var less func(a, b *core.Section) bool
	switch order {
	case SortCode:
		less = func(a, b *core.Section) bool { return a.Code < b.Code }
	case SortTitle:
		keys := lowerKeys(idx.sections, func(s *core.Section) string { return s.Title })
		sort.SliceStable(ords, func(i, j int) bool { return keys[ords[i]] < keys[ords[j]] })
		return ords
	case SortProfessor:
		keys := lowerKeys(idx.sections, func(s *core.Section) string { return s.Professor })
		sort.SliceStable(ords, func(i, j int) bool { return keys[ords[i]] < keys[ords[j]] })
		return ords
	case SortCredits:
		less = func(a, b *core.Section) bool { return a.Credits > b.Credits }
	default:
		return ords
	}

	sort.SliceStable(ords, func(i, j int) bool {
		return less(&idx.sections[ords[i]], &idx.sections[ords[j]])
	})
	return ords
}

func lowerKeys(sections []core.Section, field func(*core.Section) string) []string {
	keys := make([]string, len(sections))
	for i := range sections {
		keys[i] = strings.ToLower(field(&sections[i]))
	}
	return keys
}

// Get returns the section with the given id.
func (idx *Index) Get(id string) (core.Section, bool) {
	ord, ok := idx.byID[id]
	if !ok {
		return core.Section{}, false
	}
	return idx.sections[ord], true
}

// Lookup returns the sections for ids in the given order, skipping unknown ids.
func (idx *Index) Lookup(ids []string) []core.Section {
	out := make([]core.Section, 0, len(ids))
	for _, id := range ids {
		if s, ok := idx.Get(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// Total returns the number of indexed sections.
func (idx *Index) Total() int {
	return len(idx.sections)
}

// Subjects returns the sorted distinct department codes.
func (idx *Index) Subjects() []string {
	return idx.bitmap.Values(index.FieldSubject)
}

// HubUnits returns the sorted distinct hub units.
func (idx *Index) HubUnits() []string {
	return idx.bitmap.Values(index.FieldHub)
}

// Terms returns the display terms present in the catalog, in display order.
// Without display terms it returns every indexed term, sorted.
func (idx *Index) Terms() []string {
	all := idx.bitmap.Values(index.FieldTerm)
	if len(idx.displayTerms) == 0 {
		return all
	}
	present := make(map[string]struct{}, len(all))
	for _, t := range all {
		present[t] = struct{}{}
	}
	terms := make([]string, 0, len(idx.displayTerms))
	for _, t := range idx.displayTerms {
		if _, ok := present[t]; ok {
			terms = append(terms, t)
		}
	}
	return terms
}

// DetectConflicts reports the first overlapping meeting of every conflicting
// pair of sections.
func (idx *Index) DetectConflicts(sections []core.Section) []core.Conflict {
	return conflict.Detect(sections)
}

// ResolveQuery turns a department reference in query into a subject filter.
// Filters that already name subjects are returned untouched.
func (idx *Index) ResolveQuery(query string, filters Filters) (string, Filters) {
	if len(filters.Subjects) > 0 {
		return query, filters
	}
	codes, rest, ok := departments.Resolve(query)
	if !ok {
		return query, filters
	}
	idx.logger.Debug("query resolved to departments", "query", query, "codes", codes, "rest", rest)
	filters.Subjects = codes
	return rest, filters
}
