package index

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/poiesic/coursegrid/core"
)

// Prefix resolves queries too short for trigram matching. Keys are the first
// two characters of every code token and the department code, uppercased.
type Prefix struct {
	keys   map[string]*roaring.Bitmap
	sorted []string
}

// BuildPrefix indexes sections by their position in the slice.
func BuildPrefix(sections []core.Section) *Prefix {
	p := &Prefix{keys: make(map[string]*roaring.Bitmap)}

	for i := range sections {
		s := &sections[i]
		ord := uint32(i)
		for _, token := range strings.Fields(strings.ToUpper(s.Code)) {
			runes := []rune(token)
			if len(runes) >= 2 {
				p.add(string(runes[:2]), ord)
			}
		}
		if s.Department != "" {
			p.add(strings.ToUpper(s.Department), ord)
		}
	}

	p.sorted = make([]string, 0, len(p.keys))
	for k := range p.keys {
		p.sorted = append(p.sorted, k)
	}
	sort.Strings(p.sorted)
	return p
}

func (p *Prefix) add(key string, ord uint32) {
	bm, ok := p.keys[key]
	if !ok {
		bm = roaring.New()
		p.keys[key] = bm
	}
	bm.Add(ord)
}

// Lookup returns the ordinals stored under the exact key q, or else the union
// of every key starting with q.
func (p *Prefix) Lookup(q string) *roaring.Bitmap {
	q = strings.ToUpper(q)
	if bm, ok := p.keys[q]; ok {
		return bm.Clone()
	}

	result := roaring.New()
	start := sort.SearchStrings(p.sorted, q)
	for _, key := range p.sorted[start:] {
		if !strings.HasPrefix(key, q) {
			break
		}
		result.Or(p.keys[key])
	}
	return result
}
