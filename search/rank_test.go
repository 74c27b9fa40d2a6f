package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func candidates(paths ...string) []Candidate {
	out := make([]Candidate, len(paths))
	for i, p := range paths {
		out[i] = Candidate{Entry: Entry{Path: p, Title: p, Exists: true}}
	}
	return out
}

func paths(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Path
	}
	return out
}

func TestRankPaths(t *testing.T) {
	r := NewRanker(DefaultMaxDistance)

	tests := []struct {
		name     string
		query    string
		input    []string
		expected []string
	}{
		{
			name:     "prefix matches precede substring matches",
			query:    "foo",
			input:    []string{"foobar", "zfoo", "fooz"},
			expected: []string{"fooz", "foobar", "zfoo"},
		},
		{
			name:     "substring match with small distance still loses to prefix",
			query:    "proj",
			input:    []string{"xproj", "proj.alpha.beta.gamma.delta"},
			expected: []string{"proj.alpha.beta.gamma.delta", "xproj"},
		},
		{
			name:     "exact match ranks first inside partition",
			query:    "proj.al",
			input:    []string{"proj.a", "proj.alpha", "proj.al"},
			expected: []string{"proj.al", "proj.alpha"},
		},
		{
			name:     "case insensitive",
			query:    "readme",
			input:    []string{"docs.README", "Readme"},
			expected: []string{"Readme", "docs.README"},
		},
		{
			name:     "non matching entries are dropped",
			query:    "zz",
			input:    []string{"a", "b.c"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.RankPaths(candidates(tt.input...), tt.query)
			assert.Equal(t, tt.expected, paths(got))
		})
	}
}

func TestRankPathsStable(t *testing.T) {
	r := NewRanker(DefaultMaxDistance)
	got := r.RankPaths(candidates("c.note", "a.note", "b.note"), "note")

	assert.Equal(t, []string{"c.note", "a.note", "b.note"}, paths(got))
}

func TestRankPathsBeyondThresholdCollapse(t *testing.T) {
	r := NewRanker(2)
	input := candidates("a.very.long.path.with.x", "x", "another.long.x")

	got := r.RankPaths(input, "x")

	// "x" is an exact prefix match; the rest share the losing distance bucket
	// and keep their input order.
	assert.Equal(t, []string{"x", "a.very.long.path.with.x", "another.long.x"}, paths(got))
}

func TestRankTitles(t *testing.T) {
	r := NewRanker(DefaultMaxDistance)
	input := []Candidate{
		{Entry: Entry{Path: "proj.notes", Title: "Notes"}},
		{Entry: Entry{Path: "c", Title: "My projects"}},
		{Entry: Entry{Path: "a.b", Title: "Project Plan"}},
	}

	got := r.RankTitles(input, "proj")

	assert.Equal(t, []string{"a.b", "c"}, paths(got))
}

func TestTopLevel(t *testing.T) {
	input := candidates("proj", "proj.alpha", "daily", "daily.2024.01", "inbox")

	assert.Equal(t, []string{"proj", "daily", "inbox"}, paths(TopLevel(input, ".")))
	assert.Equal(t, []string{"proj", "proj.alpha", "daily", "daily.2024.01", "inbox"}, paths(TopLevel(input, "/")))
}

func TestCommonPrefixLen(t *testing.T) {
	assert.Equal(t, 0, commonPrefixLen([]rune("abc"), []rune("xbc")))
	assert.Equal(t, 2, commonPrefixLen([]rune("abc"), []rune("abx")))
	assert.Equal(t, 3, commonPrefixLen([]rune("abc"), []rune("abcdef")))
	assert.Equal(t, 2, commonPrefixLen([]rune("😀😁x"), []rune("😀😁y")))
}

func TestAssertDisjointPanicsOnOverlap(t *testing.T) {
	shared := candidates("dup")
	assert.Panics(t, func() { assertDisjoint(shared, shared) })
	assert.NotPanics(t, func() {
		other := []Candidate{{Entry: Entry{Path: "dup"}, Collection: 1}}
		assertDisjoint(shared, other)
	})
}
