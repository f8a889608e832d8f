// Package suggest offers a diagnostic "did you mean" helper for callers
// whose search came back empty: it ranks registered pattern texts against
// the query by Jaro-Winkler similarity, entirely outside the scored fuzzy
// matching core.
package suggest

import "github.com/hbollon/go-edlib"

// Closest returns the candidate string most similar to query by
// Jaro-Winkler similarity, along with that similarity. Returns ok=false if
// candidates is empty.
func Closest(query string, candidates []string) (best string, similarity float64, ok bool) {
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(query, c, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if !ok || float64(score) > similarity {
			best, similarity, ok = c, float64(score), true
		}
	}
	return best, similarity, ok
}
