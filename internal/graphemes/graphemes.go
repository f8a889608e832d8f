// Package graphemes splits text into Unicode extended grapheme clusters and
// records each cluster's byte position in the original string, optionally
// case-folding clusters for case-insensitive comparisons.
package graphemes

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rivo/uniseg"
)

// Token is a grapheme cluster together with its byte span in the source
// string it was extracted from. Text holds the folded form used for
// comparisons; Offset/Length always describe the ORIGINAL (un-folded) bytes
// so callers can recover exact substrings.
type Token struct {
	Text   string
	Offset int
	Length int
	hash   uint64
}

// Hash returns a pre-computed hash of Text, so engine/trie lookups never
// re-hash a token's bytes on every comparison.
func (t Token) Hash() uint64 { return t.hash }

// Split converts s into an ordered token sequence. When caseInsensitive is
// true, each token's Text is lowercased via strings.ToLower, a per-rune
// Unicode lowercase mapping that is not locale dependent; full Unicode case
// folding (multi-rune folds such as ß to ss) is not applied. Offset/Length
// continue to describe the original bytes regardless of lowercasing.
func Split(s string, caseInsensitive bool) []Token {
	if s == "" {
		return nil
	}
	tokens := make([]Token, 0, len(s))
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		start, end := gr.Positions()
		text := s[start:end]
		if caseInsensitive {
			text = strings.ToLower(text)
		}
		tokens = append(tokens, Token{
			Text:   text,
			Offset: start,
			Length: end - start,
			hash:   xxhash.Sum64String(text),
		})
	}
	return tokens
}
