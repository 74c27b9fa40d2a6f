package search

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Infinite is returned by Distance when the edit distance exceeds the threshold.
const Infinite = math.MaxInt

// Distance returns the Damerau-Levenshtein (optimal string alignment) distance
// between source and target, counted in Unicode code points. Distances above
// threshold are reported as Infinite.
func Distance(source, target string, threshold int) int {
	return DistanceRunes([]rune(source), []rune(target), threshold)
}

// DistanceRunes is Distance over already decoded code points.
func DistanceRunes(source, target []rune, threshold int) int {
	return boundedDistance(source, target, threshold, nil)
}

// boundedDistance runs the banded dynamic program. onRow, when set, is called
// once per computed row.
func boundedDistance(source, target []rune, threshold int, onRow func()) int {
	if threshold < 0 {
		panic(errors.AssertionFailedf("negative distance threshold %d", threshold))
	}

	diff := len(source) - len(target)
	if diff < 0 {
		diff = -diff
	}
	if diff > threshold {
		return Infinite
	}

	// Rows walk the longer sequence, columns the shorter one.
	if len(source) < len(target) {
		source, target = target, source
	}
	n, m := len(source), len(target)
	if m == 0 {
		// n <= threshold here.
		return n
	}

	current := make([]int, m+1)
	previous := make([]int, m+1)
	twoBack := make([]int, m+1)

	for j := range previous {
		previous[j] = j
	}

	for i := 1; i <= n; i++ {
		if onRow != nil {
			onRow()
		}

		current[0] = i
		rowMin := current[0]
		for j := 1; j <= m; j++ {
			cost := 1
			if source[i-1] == target[j-1] {
				cost = 0
			}

			best := previous[j] + 1 // deletion
			if v := current[j-1] + 1; v < best {
				best = v // insertion
			}
			if v := previous[j-1] + cost; v < best {
				best = v // substitution
			}
			if i > 1 && j > 1 &&
				source[i-2] == target[j-1] && source[i-1] == target[j-2] {
				if v := twoBack[j-2] + cost; v < best {
					best = v // transposition
				}
			}

			current[j] = best
			if best < rowMin {
				rowMin = best
			}
		}

		if rowMin > threshold {
			return Infinite
		}

		twoBack, previous, current = previous, current, twoBack
	}

	if d := previous[m]; d <= threshold {
		return d
	}
	return Infinite
}
