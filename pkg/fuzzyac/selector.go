package fuzzyac

import "sort"

// dedupe collapses raw candidates sharing the same (pattern, start, end)
// down to the highest-similarity copy, as required before any ordering or
// pruning runs.
func dedupe(matches []Match) []Match {
	best := make(map[[3]int]int, len(matches)) // key -> index into out
	var out []Match
	for _, m := range matches {
		key := [3]int{m.PatternIndex, m.Start, m.End}
		if idx, ok := best[key]; ok {
			if m.Similarity > out[idx].Similarity {
				out[idx] = m
			}
			continue
		}
		best[key] = len(out)
		out = append(out, m)
	}
	return out
}

func defaultSort(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.PatternIndex < b.PatternIndex
	})
}

func greedySort(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.PatternIndex < b.PatternIndex
	})
}

// coverageSort ranks by similarity^2 * pattern token length, a supplemental
// ordering carried over from the system this automaton was distilled from:
// it keeps a long, merely-good match from losing to a short, near-perfect
// one.
func coverageSort(matches []Match, patternLen func(patternIndex int) int) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		aw := a.Similarity * a.Similarity * float64(patternLen(a.PatternIndex))
		bw := b.Similarity * b.Similarity * float64(patternLen(b.PatternIndex))
		if aw != bw {
			return aw > bw
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.PatternIndex < b.PatternIndex
	})
}

// pruneOverlaps walks matches in their given order, keeping a candidate
// only if its byte interval is disjoint from every interval already kept.
func pruneOverlaps(matches []Match) []Match {
	var accepted []Match
	for _, m := range matches {
		ok := true
		for _, a := range accepted {
			if m.overlaps(a) {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, m)
		}
	}
	return accepted
}

// pruneOverlapsUnique is pruneOverlaps plus a constraint that at most one
// match per pattern unique id survives.
func pruneOverlapsUnique(matches []Match) []Match {
	var accepted []Match
	consumed := make(map[int]bool)
	for _, m := range matches {
		if consumed[m.UniqueID] {
			continue
		}
		ok := true
		for _, a := range accepted {
			if m.overlaps(a) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		accepted = append(accepted, m)
		consumed[m.UniqueID] = true
	}
	return accepted
}

// byStart returns a copy of matches ordered by ascending start offset, the
// order segmentation and replacement need regardless of selection policy.
func byStart(matches []Match) []Match {
	out := append([]Match(nil), matches...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
