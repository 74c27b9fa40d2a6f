package search

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		key      string
		expected []int
	}{
		{name: "substring", query: "alpha", key: "proj.alpha", expected: []int{5, 6, 7, 8, 9}},
		{name: "case insensitive", query: "PROJ", key: "proj.alpha", expected: []int{0, 1, 2, 3}},
		{name: "after astral code point", query: "x", key: "😀x", expected: []int{1}},
		{name: "empty query", query: "  ", key: "proj", expected: nil},
		{name: "no match", query: "zzz", key: "proj.alpha", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Highlight(tt.query, tt.key))
		})
	}
}

func TestHighlightGapMatch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		key   string
		want  int
	}{
		{name: "gap across segments", query: "proj todo", key: "proj.alpha.todo", want: 8},
		{name: "initials", query: "p/a/t", key: "p/alpha/todo", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Highlight(tt.query, tt.key)
			assert.Len(t, got, tt.want)
			assert.True(t, sort.IntsAreSorted(got), "indexes should be ascending: %v", got)
		})
	}
}
