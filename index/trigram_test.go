package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CS 111", "cs 111"},
		{"  Intro   to\tComputing \n", "intro to computing"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestShingles(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"regular", "cs 111", []string{"cs ", "s 1", " 11", "111"}},
		{"exact length", "abc", []string{"abc"}},
		{"short", "cs", []string{"cs"}},
		{"single char", "c", []string{"c"}},
		{"empty", "", nil},
		{"duplicates collapse", "aaaa", []string{"aaa"}},
		{"multibyte", "éco", []string{"éco"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shingles(tt.in))
		})
	}
}

func TestTrigram_Candidates(t *testing.T) {
	idx := NewTrigram()
	idx.Add(0, "CAS CS 111 Introduction to Computer Science")
	idx.Add(1, "CAS MA 123 Calculus I")
	idx.Add(2, "CAS CS 112 Introduction to Computer Science II")
	require.Equal(t, uint64(3), idx.Candidates("", 1).GetCardinality())

	t.Run("matches shared shingles", func(t *testing.T) {
		got := idx.Candidates("computer", 1)
		assert.ElementsMatch(t, []uint32{0, 2}, got.ToArray())
	})

	t.Run("threshold filters weak matches", func(t *testing.T) {
		// "cs 111" shares every shingle with doc 0 but only "cs ", "s 1", " 11" with doc 2.
		got := idx.Candidates("cs 111", 4)
		assert.Equal(t, []uint32{0}, got.ToArray())
	})

	t.Run("query normalized before matching", func(t *testing.T) {
		got := idx.Candidates("  CALCULUS  ", 1)
		assert.Equal(t, []uint32{1}, got.ToArray())
	})

	t.Run("no match", func(t *testing.T) {
		assert.True(t, idx.Candidates("xyzzy", 1).IsEmpty())
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		got := idx.Candidates("   ", 1)
		assert.Equal(t, []uint32{0, 1, 2}, got.ToArray())
	})

	t.Run("result is independent of the index", func(t *testing.T) {
		got := idx.Candidates("", 1)
		got.Clear()
		assert.Equal(t, uint64(3), idx.Candidates("", 1).GetCardinality())
	})
}
