package fuzzyac

import "strings"

// Replacer performs find-and-replace over an automaton's fuzzy matches.
type Replacer struct {
	a            *Automaton
	replacements map[int]string // pattern index -> replacement text
}

// NewReplacer builds a Replacer from (pattern text, replacement text)
// pairs. Pattern text is matched against the automaton's registered
// patterns by exact text; patterns with no corresponding pair are left
// untouched by Replace.
func NewReplacer(a *Automaton, pairs ...[2]string) *Replacer {
	r := &Replacer{a: a, replacements: make(map[int]string)}
	byText := make(map[string]int, len(a.patterns))
	for _, p := range a.patterns {
		byText[p.Text] = p.index
	}
	for _, pair := range pairs {
		if idx, ok := byText[pair[0]]; ok {
			r.replacements[idx] = pair[1]
		}
	}
	return r
}

// Replace runs a non-overlapping search at threshold and substitutes each
// accepted match with its registered replacement, leaving unmatched text
// untouched.
func (r *Replacer) Replace(text string, threshold float64) string {
	return r.ReplaceFunc(text, threshold, func(m Match) (string, bool) {
		rep, ok := r.replacements[m.PatternIndex]
		return rep, ok
	})
}

// ReplaceFunc is Replace with a caller-supplied callback instead of a
// static pattern->replacement map. Returning ok=false keeps the original
// matched substring.
func (r *Replacer) ReplaceFunc(text string, threshold float64, fn func(Match) (string, bool)) string {
	// Search orders matches by selection policy (similarity first for the
	// default policy), not by position, so the splice loop below needs its
	// own pass ordered by Start.
	matches := byStart(r.a.Search(text, threshold))
	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m.Start])
		if rep, ok := fn(m); ok {
			sb.WriteString(rep)
		} else {
			sb.WriteString(m.Text)
		}
		last = m.End
	}
	sb.WriteString(text[last:])
	return sb.String()
}
