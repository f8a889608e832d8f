package fuzzyac

import (
	"fmt"

	"github.com/kakserpom/fuzzyac/internal/graphemes"
)

// Builder accumulates patterns and engine-wide configuration, then compiles
// them into an immutable Automaton.
type Builder struct {
	caseInsensitive bool
	limits          FuzzyLimits
	penalties       FuzzyPenalties
	patterns        []Pattern
	nextUniqueID    int
}

// NewBuilder returns a Builder with default engine limits (no fuzziness)
// and default penalties.
func NewBuilder() *Builder {
	return &Builder{
		limits:    NoFuzz(),
		penalties: DefaultPenalties(),
	}
}

// CaseInsensitive toggles Unicode case folding during normalization of both
// patterns and search input (default false). Must be called before any
// pattern is added, since it affects tokenization.
func (b *Builder) CaseInsensitive(v bool) *Builder {
	b.caseInsensitive = v
	return b
}

// Fuzzy sets the engine-default fuzzy limits, used by any pattern that does
// not declare its own override.
func (b *Builder) Fuzzy(limits FuzzyLimits) *Builder {
	b.limits = limits
	return b
}

// Penalties sets the engine-default per-edit-kind penalties.
func (b *Builder) Penalties(p FuzzyPenalties) *Builder {
	b.penalties = p
	return b
}

// AddPattern registers a single pattern from bare text plus options.
func (b *Builder) AddPattern(text string, opts ...PatternOption) error {
	p, err := newPattern(text, b.caseInsensitive, opts...)
	if err != nil {
		return err
	}
	p.index = len(b.patterns)
	if !p.hasUID {
		p.UniqueID = p.index
	}
	b.patterns = append(b.patterns, p)
	return nil
}

// AddWeighted registers a (text, weight) pattern, the second of the three
// input shapes the registry accepts.
func (b *Builder) AddWeighted(text string, weight float64) error {
	return b.AddPattern(text, WithWeight(weight))
}

// AddPatterns registers several bare-text patterns at once.
func (b *Builder) AddPatterns(texts ...string) error {
	for _, t := range texts {
		if err := b.AddPattern(t); err != nil {
			return err
		}
	}
	return nil
}

// Build validates the registered patterns and compiles the trie, failure
// links and output links into an immutable Automaton.
func (b *Builder) Build() (*Automaton, error) {
	if len(b.patterns) == 0 {
		return nil, fmt.Errorf("fuzzyac: at least one pattern is required")
	}

	trie := newAutomaton()
	for _, p := range b.patterns {
		trie.insert(p)
	}
	trie.build()

	return &Automaton{
		trie:            trie,
		patterns:        b.patterns,
		caseInsensitive: b.caseInsensitive,
		penalties:       b.penalties,
		limits:          b.limits,
		engine:          newSearchEngine(trie, b.patterns, b.penalties, b.limits),
	}, nil
}

// Automaton is the compiled, immutable fuzzy matcher. It is safe for
// concurrent use: every search call owns its own frontier and match slice.
type Automaton struct {
	trie            *automaton
	patterns        []Pattern
	caseInsensitive bool
	penalties       FuzzyPenalties
	limits          FuzzyLimits
	engine          *searchEngine
}

// Patterns returns the registered patterns in registration order.
func (a *Automaton) Patterns() []Pattern { return a.patterns }

func (a *Automaton) tokenize(text string) []graphemes.Token {
	return graphemes.Split(text, a.caseInsensitive)
}

// SearchUnsorted returns every deduplicated raw candidate above threshold,
// with no ordering or overlap pruning applied. It is the only entry point
// that may return overlapping matches.
func (a *Automaton) SearchUnsorted(text string, threshold float64) []Match {
	raw := a.engine.search(text, a.tokenize(text), threshold)
	return dedupe(raw)
}

// Search returns the default-ordered, non-overlapping match set:
// descending similarity, then longer byte length, then earlier start, then
// lower pattern index.
func (a *Automaton) Search(text string, threshold float64) []Match {
	matches := a.SearchUnsorted(text, threshold)
	defaultSort(matches)
	return pruneOverlaps(matches)
}

// SearchNonOverlapping is an alias of Search.
func (a *Automaton) SearchNonOverlapping(text string, threshold float64) []Match {
	return a.Search(text, threshold)
}

// SearchGreedy returns the greedy-ordered, non-overlapping match set:
// descending byte length, then descending similarity, then earlier start,
// then lower pattern index.
func (a *Automaton) SearchGreedy(text string, threshold float64) []Match {
	matches := a.SearchUnsorted(text, threshold)
	greedySort(matches)
	return pruneOverlaps(matches)
}

// SearchCoverage returns matches ordered by similarity^2 * pattern length,
// non-overlapping. Supplements the two orderings above for callers who want
// longer, merely-good matches to outrank short near-perfect ones.
func (a *Automaton) SearchCoverage(text string, threshold float64) []Match {
	matches := a.SearchUnsorted(text, threshold)
	coverageSort(matches, func(patternIndex int) int { return len(a.patterns[patternIndex].tokens) })
	return pruneOverlaps(matches)
}

// SearchNonOverlappingUnique returns the default-ordered match set with
// additional pruning: at most one surviving match per pattern unique id.
func (a *Automaton) SearchNonOverlappingUnique(text string, threshold float64) []Match {
	matches := a.SearchUnsorted(text, threshold)
	defaultSort(matches)
	return pruneOverlapsUnique(matches)
}

// SegmentIter splits text into interleaved Matched/Unmatched segments at
// threshold, using the default non-overlapping search.
func (a *Automaton) SegmentIter(text string, threshold float64) []Segment {
	return Segments(text, a.Search(text, threshold))
}

// SegmentText is the convenience wrapper around SegmentIter that
// reconstructs a cleaned-up version of text.
func (a *Automaton) SegmentText(text string, threshold float64) string {
	return SegmentText(text, a.Search(text, threshold))
}

// Split returns the text of every unmatched span at threshold.
func (a *Automaton) Split(text string, threshold float64) []string {
	return Split(text, a.Search(text, threshold))
}

// StripPrefix drops leading matches and leading whitespace at threshold.
func (a *Automaton) StripPrefix(text string, threshold float64) string {
	return StripPrefix(text, a.Search(text, threshold))
}

// StripPostfix drops trailing matches and trailing whitespace at threshold.
func (a *Automaton) StripPostfix(text string, threshold float64) string {
	return StripPostfix(text, a.Search(text, threshold))
}
