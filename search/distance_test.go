package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		threshold int
		want      int
	}{
		{"identical", "proj.alpha", "proj.alpha", 0, 0},
		{"empty both", "", "", 0, 0},
		{"empty source", "", "abc", 3, 3},
		{"empty target over threshold", "abcd", "", 3, Infinite},
		{"substitution", "abc", "abd", 1, 1},
		{"insertion", "abc", "abxc", 5, 1},
		{"deletion", "abxc", "abc", 5, 1},
		{"transposition", "ab", "ba", 5, 1},
		{"transposition inside", "note", "ntoe", 5, 1},
		{"kitten sitting", "kitten", "sitting", 10, 3},
		{"kitten sitting bounded", "kitten", "sitting", 2, Infinite},
		{"restricted transposition", "ca", "abc", 5, 3},
		{"threshold zero mismatch", "abc", "abd", 0, Infinite},
		{"length gap rejected", "a", "abcdef", 3, Infinite},
		{"astral code point", "a😀b", "axb", 5, 1},
		{"precomposed accent", "naïve", "naive", 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b, tt.threshold))
		})
	}
}

func TestDistanceIdentityForAnyThreshold(t *testing.T) {
	for _, s := range []string{"", "a", "proj.alpha.todo", "日本語", "a😀b"} {
		for _, k := range []int{0, 1, 5, 10} {
			assert.Equal(t, 0, Distance(s, s, k), "%q with threshold %d", s, k)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	words := []string{"", "a", "ab", "ba", "abc", "acb", "proj", "project", "jorp", "a😀b", "axb", "kitten", "sitting"}
	for _, a := range words {
		for _, b := range words {
			for _, k := range []int{0, 1, 2, 3, 10} {
				assert.Equal(t, Distance(a, b, k), Distance(b, a, k), "%q/%q k=%d", a, b, k)
			}
		}
	}
}

func TestDistanceLengthRejectSkipsRows(t *testing.T) {
	rows := 0
	got := boundedDistance([]rune("abcdefgh"), []rune("ab"), 3, func() { rows++ })

	assert.Equal(t, Infinite, got)
	assert.Zero(t, rows)
}

func TestDistanceAbortsOnRowMinimum(t *testing.T) {
	rows := 0
	got := boundedDistance([]rune("aaaaaaaaaa"), []rune("bbbbbbbbbb"), 2, func() { rows++ })

	require.Equal(t, Infinite, got)
	assert.Equal(t, 3, rows)
}

func TestDistanceBuffersFollowShorterInput(t *testing.T) {
	rows := 0
	boundedDistance([]rune("ab"), []rune("abcd"), 5, func() { rows++ })

	// One row per code point of the longer input.
	assert.Equal(t, 4, rows)
}

func TestDistanceNegativeThresholdPanics(t *testing.T) {
	assert.Panics(t, func() { Distance("a", "b", -1) })
}
