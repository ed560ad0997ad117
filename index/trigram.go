package index

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Trigram is an inverted index from 3-character shingles to document ordinals.
// It narrows the candidate set before the more expensive fuzzy ranking step.
type Trigram struct {
	postings map[string]*roaring.Bitmap
	all      *roaring.Bitmap
}

// NewTrigram returns an empty trigram index.
func NewTrigram() *Trigram {
	return &Trigram{
		postings: make(map[string]*roaring.Bitmap),
		all:      roaring.New(),
	}
}

// Add indexes the shingles of the normalized text under id.
func (t *Trigram) Add(id uint32, text string) {
	t.all.Add(id)

	for _, gram := range Shingles(Normalize(text)) {
		posting, ok := t.postings[gram]
		if !ok {
			posting = roaring.New()
			t.postings[gram] = posting
		}
		posting.Add(id)
	}
}

// Candidates returns the ids sharing at least minMatches distinct shingles with
// query. A query without shingles returns every indexed id.
func (t *Trigram) Candidates(query string, minMatches int) *roaring.Bitmap {
	grams := Shingles(Normalize(query))
	if len(grams) == 0 {
		return t.all.Clone()
	}

	counts := make(map[uint32]int)
	for _, gram := range grams {
		posting, ok := t.postings[gram]
		if !ok {
			continue
		}
		it := posting.Iterator()
		for it.HasNext() {
			counts[it.Next()]++
		}
	}

	result := roaring.New()
	for id, n := range counts {
		if n >= minMatches {
			result.Add(id)
		}
	}
	return result
}

// Normalize lowercases text, trims it and collapses whitespace runs to a
// single space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Shingles returns the distinct overlapping 3-character substrings of text in
// first-seen order. Text shorter than three characters is its own single
// shingle; empty text has none.
func Shingles(text string) []string {
	runes := []rune(text)
	if len(runes) < 3 {
		if len(runes) == 0 {
			return nil
		}
		return []string{text}
	}

	seen := make(map[string]struct{}, len(runes)-2)
	grams := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		gram := string(runes[i : i+3])
		if _, dup := seen[gram]; dup {
			continue
		}
		seen[gram] = struct{}{}
		grams = append(grams, gram)
	}
	return grams
}
