package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Highlight returns the rune indexes of key that match query, for emphasis
// in a result row. A contiguous case-insensitive substring match wins; else
// the fuzzy subsequence match is used. Returns nil when nothing matches.
func Highlight(query, key string) []int {
	query = strings.TrimSpace(query)
	if query == "" || key == "" {
		return nil
	}

	lowerKey := strings.ToLower(key)
	lowerQuery := strings.ToLower(query)
	if at := strings.Index(lowerKey, lowerQuery); at >= 0 && len(lowerKey) == len(key) {
		start := len([]rune(key[:at]))
		n := len([]rune(lowerQuery))
		idx := make([]int, n)
		for i := range idx {
			idx[i] = start + i
		}
		return idx
	}

	// Spaces are gaps, so "proj todo" still lines up against "proj.alpha.todo".
	matches := fuzzy.Find(strings.ReplaceAll(query, " ", ""), []string{key})
	if len(matches) == 0 {
		return nil
	}
	return byteToRuneIndexes(key, matches[0].MatchedIndexes)
}

func byteToRuneIndexes(s string, offsets []int) []int {
	runeAt := make(map[int]int, len(s))
	i := 0
	for b := range s {
		runeAt[b] = i
		i++
	}
	out := make([]int, 0, len(offsets))
	for _, off := range offsets {
		if r, ok := runeAt[off]; ok {
			out = append(out, r)
		}
	}
	return out
}
