package search

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultMaxDistance is the edit distance beyond which candidates share the
// same losing bucket.
const DefaultMaxDistance = 10

// keyFunc extracts the lower-cased comparison key of a candidate.
type keyFunc func(Candidate) string

func pathKey(c Candidate) string  { return strings.ToLower(c.Path) }
func titleKey(c Candidate) string { return strings.ToLower(c.Title) }

type scored struct {
	candidate Candidate
	prefix    int
	distance  int
}

// Ranker orders candidates by common prefix length, then by bounded edit
// distance. Full ties keep their input order.
type Ranker struct {
	MaxDistance int
}

// NewRanker returns a ranker using threshold as the distance bound.
func NewRanker(threshold int) Ranker {
	return Ranker{MaxDistance: threshold}
}

// Sort returns candidates ordered against query using key.
func (r Ranker) Sort(candidates []Candidate, query string, key keyFunc) []Candidate {
	queryRunes := []rune(query)
	items := make([]scored, len(candidates))
	for i, c := range candidates {
		k := []rune(key(c))
		items[i] = scored{
			candidate: c,
			prefix:    commonPrefixLen(queryRunes, k),
			distance:  DistanceRunes(queryRunes, k, r.MaxDistance),
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})

	out := make([]Candidate, len(items))
	for i, it := range items {
		out[i] = it.candidate
	}
	return out
}

// RankPaths partitions candidates into path prefix matches and substring-only
// matches of query, sorts each and returns prefix matches first.
func (r Ranker) RankPaths(candidates []Candidate, query string) []Candidate {
	var prefixed, contained []Candidate
	for _, c := range candidates {
		p := pathKey(c)
		switch {
		case strings.HasPrefix(p, query):
			prefixed = append(prefixed, c)
		case strings.Contains(p, query):
			contained = append(contained, c)
		}
	}
	assertDisjoint(prefixed, contained)

	out := make([]Candidate, 0, len(prefixed)+len(contained))
	out = append(out, r.Sort(prefixed, query, pathKey)...)
	out = append(out, r.Sort(contained, query, pathKey)...)
	return out
}

// RankTitles keeps candidates whose title contains query and sorts them by title.
func (r Ranker) RankTitles(candidates []Candidate, query string) []Candidate {
	var matched []Candidate
	for _, c := range candidates {
		if strings.Contains(titleKey(c), query) {
			matched = append(matched, c)
		}
	}
	return r.Sort(matched, query, titleKey)
}

// TopLevel returns the candidates whose path has no separator, in input order.
func TopLevel(candidates []Candidate, separator string) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if !strings.Contains(c.Path, separator) {
			out = append(out, c)
		}
	}
	return out
}

func less(a, b scored) bool {
	if a.prefix != b.prefix {
		return a.prefix > b.prefix
	}
	return a.distance < b.distance
}

func commonPrefixLen(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

type candidateID struct {
	collection int
	path       string
}

// assertDisjoint panics if a candidate landed in both partitions.
func assertDisjoint(prefixed, contained []Candidate) {
	if len(prefixed) == 0 || len(contained) == 0 {
		return
	}
	seen := make(map[candidateID]struct{}, len(prefixed))
	for _, c := range prefixed {
		seen[candidateID{c.Collection, c.Path}] = struct{}{}
	}
	for _, c := range contained {
		if _, ok := seen[candidateID{c.Collection, c.Path}]; ok {
			panic(errors.AssertionFailedf("candidate %q ranked in both partitions", c.Path))
		}
	}
}
