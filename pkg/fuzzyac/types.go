// Package fuzzyac implements an Aho-Corasick style multi-pattern matcher
// that tolerates bounded edits (insertions, deletions, substitutions and
// adjacent transpositions) between a registered pattern and the text it
// matches, scoring every candidate as a normalized similarity in [0,1].
package fuzzyac

import (
	"fmt"

	"github.com/kakserpom/fuzzyac/internal/graphemes"
)

// FuzzyLimits caps how many edits of each kind a single match may consume.
// A zero value disables that edit kind entirely. MaxEdits additionally caps
// the sum of every edit kind.
type FuzzyLimits struct {
	MaxInsertions   int
	MaxDeletions    int
	MaxSubstitutions int
	MaxSwaps        int
	MaxEdits        int
}

// NoFuzz disables every edit kind: only exact occurrences match.
func NoFuzz() FuzzyLimits {
	return FuzzyLimits{}
}

// FuzzyPenalties weighs each edit kind's contribution to a match's cost.
// Defaults (all 1.0) mean every edit kind is equally expensive.
type FuzzyPenalties struct {
	Substitution float64
	Insertion    float64
	Deletion     float64
	Swap         float64
}

// DefaultPenalties returns the engine-default per-edit-kind penalties.
func DefaultPenalties() FuzzyPenalties {
	return FuzzyPenalties{
		Substitution: 1.0,
		Insertion:    1.0,
		Deletion:     1.0,
		Swap:         1.0,
	}
}

// Pattern is an immutable, registered search pattern.
type Pattern struct {
	Text     string
	tokens   []graphemes.Token
	Weight   float64
	Limits   *FuzzyLimits // nil means "use engine defaults"
	UniqueID int
	index    int  // dense registry index, assigned on registration
	hasUID   bool // true once WithUniqueID has been applied
}

// Tokens returns the pattern's normalized grapheme-cluster token sequence.
func (p Pattern) Tokens() []graphemes.Token { return p.tokens }

// Index returns the pattern's dense registry index.
func (p Pattern) Index() int { return p.index }

// PatternOption customizes a Pattern at registration time.
type PatternOption func(*Pattern)

// WithWeight sets a multiplicative factor applied to the computed
// similarity (default 1.0). Weights above 1.0 can push scores above 1.0;
// the scoring kernel clamps the result back into [0,1].
func WithWeight(w float64) PatternOption {
	return func(p *Pattern) { p.Weight = w }
}

// WithFuzzyLimits overrides the engine's default fuzzy limits for this
// pattern only.
func WithFuzzyLimits(limits FuzzyLimits) PatternOption {
	return func(p *Pattern) { p.Limits = &limits }
}

// WithUniqueID supplies a caller-chosen dedup key, used by the
// unique-pattern selection variant. Patterns sharing a unique id are
// treated as interchangeable: at most one of them survives pruning.
func WithUniqueID(id int) PatternOption {
	return func(p *Pattern) { p.UniqueID = id; p.hasUID = true }
}

// newPattern validates and constructs a Pattern from raw text and options.
// caseInsensitive controls grapheme folding during tokenization.
func newPattern(text string, caseInsensitive bool, opts ...PatternOption) (Pattern, error) {
	if text == "" {
		return Pattern{}, fmt.Errorf("fuzzyac: empty pattern is not allowed")
	}
	p := Pattern{
		Text:   text,
		tokens: graphemes.Split(text, caseInsensitive),
		Weight: 1.0,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if len(p.tokens) == 0 {
		return Pattern{}, fmt.Errorf("fuzzyac: pattern %q normalizes to zero tokens", text)
	}
	return p, nil
}

// EditCounts tallies how many edits of each kind a match consumed.
type EditCounts struct {
	Insertions    int
	Deletions     int
	Substitutions int
	Swaps         int
}

// Total returns the sum of every edit kind.
func (e EditCounts) Total() int {
	return e.Insertions + e.Deletions + e.Substitutions + e.Swaps
}

// Match is a single candidate occurrence of a pattern in a searched text.
type Match struct {
	PatternIndex int
	PatternText  string
	UniqueID     int
	Text         string // matched substring, derived from the haystack
	Start        int    // byte offset in the haystack, inclusive
	End          int    // byte offset in the haystack, exclusive
	Edits        EditCounts
	Penalty      float64
	Similarity   float64
}

// Len returns the match's byte length (End - Start).
func (m Match) Len() int { return m.End - m.Start }

// overlaps reports whether m and other's half-open byte intervals intersect.
func (m Match) overlaps(other Match) bool {
	return m.Start < other.End && other.Start < m.End
}
