package fuzzyac

import "github.com/kakserpom/fuzzyac/internal/graphemes"

// remaining tracks the edit budget left along one traversal branch.
type remaining struct {
	ins, del, sub, swap, total int
}

func (r remaining) minusIns() remaining  { r.ins--; r.total--; return r }
func (r remaining) minusDel() remaining  { r.del--; r.total--; return r }
func (r remaining) minusSub() remaining  { r.sub--; r.total--; return r }
func (r remaining) minusSwap() remaining { r.swap--; r.total--; return r }

// searchState is a single point in the bounded traversal: which trie node
// we're at, how far into the input tokens we've consumed, the remaining
// edit budget, the edits accumulated so far, and the byte offset where this
// branch's match would start.
type searchState struct {
	node  int
	pos   int
	rem   remaining
	edits EditCounts
	start int
}

// dedupKey identifies a frontier state for the visited set. It carries the
// full remaining budget per edit kind, not just the total, because two
// states with the same total remaining but different per-kind splits are
// not interchangeable: one may still have room to insert where the other
// only has room to delete, and merging them would silently drop whichever
// arrived second. The match start offset is included for the same reason:
// branches seeded from different start positions that meet at the same
// (node, pos, remaining) must both survive, since the merged state can
// only carry one of the two starts forward.
type dedupKey struct {
	node, pos, start         int
	ins, del, sub, swap, tot int
}

// searchEngine drives the automaton over a tokenized haystack, emitting raw
// candidate matches for every admissible fuzzy alignment.
type searchEngine struct {
	a        *automaton
	patterns []Pattern
	pens     FuzzyPenalties
	deflt    FuzzyLimits
	maxLim   FuzzyLimits // component-wise max over engine default and every pattern override, used to bound traversal
}

func newSearchEngine(a *automaton, patterns []Pattern, pens FuzzyPenalties, deflt FuzzyLimits) *searchEngine {
	max := deflt
	for _, p := range patterns {
		if p.Limits == nil {
			continue
		}
		max.MaxInsertions = maxInt(max.MaxInsertions, p.Limits.MaxInsertions)
		max.MaxDeletions = maxInt(max.MaxDeletions, p.Limits.MaxDeletions)
		max.MaxSubstitutions = maxInt(max.MaxSubstitutions, p.Limits.MaxSubstitutions)
		max.MaxSwaps = maxInt(max.MaxSwaps, p.Limits.MaxSwaps)
		max.MaxEdits = maxInt(max.MaxEdits, p.Limits.MaxEdits)
	}
	return &searchEngine{a: a, patterns: patterns, pens: pens, deflt: deflt, maxLim: max}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (e *searchEngine) effectiveLimits(p Pattern) FuzzyLimits {
	if p.Limits != nil {
		return *p.Limits
	}
	return e.deflt
}

func withinLimits(edits EditCounts, lim FuzzyLimits) bool {
	return edits.Insertions <= lim.MaxInsertions &&
		edits.Deletions <= lim.MaxDeletions &&
		edits.Substitutions <= lim.MaxSubstitutions &&
		edits.Swaps <= lim.MaxSwaps &&
		edits.Total() <= lim.MaxEdits
}

// search runs the bounded fuzzy traversal over tok and returns every
// candidate whose similarity reaches threshold. The result may contain
// duplicate (pattern, start, end) entries; callers dedupe via the selector.
func (e *searchEngine) search(haystack string, tok []graphemes.Token, threshold float64) []Match {
	n := len(tok)
	offset := func(i int) int {
		if i < n {
			return tok[i].Offset
		}
		return len(haystack)
	}

	initRem := remaining{
		ins: e.maxLim.MaxInsertions, del: e.maxLim.MaxDeletions,
		sub: e.maxLim.MaxSubstitutions, swap: e.maxLim.MaxSwaps,
		total: e.maxLim.MaxEdits,
	}

	var matches []Match
	visited := make(map[dedupKey]bool)
	var stack []searchState

	push := func(s searchState) {
		key := dedupKey{s.node, s.pos, s.start, s.rem.ins, s.rem.del, s.rem.sub, s.rem.swap, s.rem.total}
		if visited[key] {
			return
		}
		visited[key] = true
		stack = append(stack, s)
	}

	for i := 0; i <= n; i++ {
		push(searchState{node: 0, pos: i, rem: initRem, start: offset(i)})
	}

	emit := func(s searchState) {
		for _, patIdx := range e.a.terminalsAt(s.node) {
			p := e.patterns[patIdx]
			lim := e.effectiveLimits(p)
			if !withinLimits(s.edits, lim) {
				continue
			}
			penalty, sim := score(s.edits, len(p.tokens), p.Weight, e.pens)
			if sim < threshold {
				continue
			}
			end := offset(s.pos)
			matches = append(matches, Match{
				PatternIndex: patIdx,
				PatternText:  p.Text,
				UniqueID:     p.UniqueID,
				Text:         haystack[s.start:end],
				Start:        s.start,
				End:          end,
				Edits:        s.edits,
				Penalty:      penalty,
				Similarity:   sim,
			})
		}
	}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		emit(s)

		nd := &e.a.nodes[s.node]
		hasExact := false
		if s.pos < n {
			h := tok[s.pos].Hash()
			if edg, ok := nd.children[h]; ok && edg.token == tok[s.pos].Text {
				hasExact = true
				push(searchState{node: edg.to, pos: s.pos + 1, rem: s.rem, edits: s.edits, start: s.start})
			}
		}

		if s.pos < n && s.rem.sub > 0 && s.rem.total > 0 {
			cur := tok[s.pos]
			for h, edg := range nd.children {
				if h == cur.Hash() && edg.token == cur.Text {
					continue
				}
				ed := s.edits
				ed.Substitutions++
				push(searchState{node: edg.to, pos: s.pos + 1, rem: s.rem.minusSub(), edits: ed, start: s.start})
			}
		}

		if s.pos < n && s.rem.ins > 0 && s.rem.total > 0 {
			ed := s.edits
			ed.Insertions++
			push(searchState{node: s.node, pos: s.pos + 1, rem: s.rem.minusIns(), edits: ed, start: s.start})
		}

		if s.rem.del > 0 && s.rem.total > 0 {
			for _, edg := range nd.children {
				ed := s.edits
				ed.Deletions++
				push(searchState{node: edg.to, pos: s.pos, rem: s.rem.minusDel(), edits: ed, start: s.start})
			}
		}

		if s.pos+1 < n && s.rem.swap > 0 && s.rem.total > 0 {
			t0, t1 := tok[s.pos], tok[s.pos+1]
			if e1, ok := nd.children[t1.Hash()]; ok && e1.token == t1.Text {
				n1 := &e.a.nodes[e1.to]
				if e2, ok := n1.children[t0.Hash()]; ok && e2.token == t0.Text {
					ed := s.edits
					ed.Swaps++
					push(searchState{node: e2.to, pos: s.pos + 2, rem: s.rem.minusSwap(), edits: ed, start: s.start})
				}
			}
		}

		if s.pos < n && !hasExact && s.node != 0 {
			push(searchState{node: nd.fail, pos: s.pos, rem: s.rem, edits: s.edits, start: s.start})
		}
	}

	return matches
}
