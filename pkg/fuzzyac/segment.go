package fuzzyac

import "strings"

// space and noLeadingSpacePunctuation drive segment_text's whitespace
// heuristic: a boundary that already touches one of these needs no
// synthetic space inserted.
const space = " \t"

var noLeadingSpacePunctuation = []string{",", ".", "?", "!", ";", ":", "—", "-", "…"}

// Segment is one piece of a segmented text: either a Match that cleared
// threshold, or an Unmatched byte range between/around matches.
type Segment struct {
	Matched bool
	Match   Match  // valid only when Matched
	Start   int    // byte offset, valid only when !Matched
	End     int    // byte offset, valid only when !Matched
	Text    string // valid only when !Matched
}

// Segments splits haystack into interleaved Matched/Unmatched segments
// covering it exactly once with no gaps. matches need not be pre-sorted;
// they are ordered by start offset before segmenting and must already be
// non-overlapping (as returned by any Search* entry point other than
// SearchUnsorted).
func Segments(haystack string, matches []Match) []Segment {
	ordered := byStart(matches)
	var segments []Segment
	last := 0
	for _, m := range ordered {
		if m.Start < last {
			continue
		}
		if m.Start > last {
			segments = append(segments, Segment{Start: last, End: m.Start, Text: haystack[last:m.Start]})
		}
		segments = append(segments, Segment{Matched: true, Match: m})
		last = m.End
	}
	if last < len(haystack) {
		segments = append(segments, Segment{Start: last, End: len(haystack), Text: haystack[last:]})
	}
	return segments
}

// SegmentText reconstructs haystack from its segments, inserting a single
// space at any boundary between two segments whose touching ends contain
// no whitespace already.
func SegmentText(haystack string, matches []Match) string {
	var sb strings.Builder
	prevMatched := false
	for _, seg := range Segments(haystack, matches) {
		if seg.Matched {
			if prevMatched || (sb.Len() > 0 && !endsWithSpace(sb.String())) {
				sb.WriteByte(' ')
			}
			prevMatched = true
			sb.WriteString(seg.Match.Text)
		} else {
			if prevMatched && !startsWithPunctuation(seg.Text) && !strings.ContainsRune(space, rune(seg.Text[0])) {
				sb.WriteByte(' ')
			}
			prevMatched = false
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

func endsWithSpace(s string) bool {
	if s == "" {
		return false
	}
	return strings.ContainsRune(space, rune(s[len(s)-1]))
}

func startsWithPunctuation(s string) bool {
	for _, p := range noLeadingSpacePunctuation {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Split returns the text of every Unmatched segment, in order, including
// empty ones at boundaries. Its length is always (accepted match count)+1.
func Split(haystack string, matches []Match) []string {
	var out []string
	gap := true // no unmatched text recorded since the previous match (or the start)
	for _, seg := range Segments(haystack, matches) {
		if seg.Matched {
			if gap {
				out = append(out, "")
			}
			gap = true
			continue
		}
		out = append(out, seg.Text)
		gap = false
	}
	if gap {
		out = append(out, "")
	}
	return out
}

// StripPrefix drops leading matched segments and whitespace-only unmatched
// segments, then left-trims the first retained unmatched segment.
func StripPrefix(haystack string, matches []Match) string {
	segments := Segments(haystack, matches)
	i := 0
	for i < len(segments) && (segments[i].Matched || strings.TrimSpace(segments[i].Text) == "") {
		i++
	}
	var sb strings.Builder
	for j, seg := range segments[i:] {
		if j == 0 && !seg.Matched {
			sb.WriteString(strings.TrimLeft(seg.Text, " \t\n\r"))
			continue
		}
		if seg.Matched {
			sb.WriteString(seg.Match.Text)
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// StripPostfix is the symmetric trailing counterpart of StripPrefix.
func StripPostfix(haystack string, matches []Match) string {
	segments := Segments(haystack, matches)
	i := len(segments) - 1
	for i >= 0 && (segments[i].Matched || strings.TrimSpace(segments[i].Text) == "") {
		i--
	}
	var sb strings.Builder
	for j, seg := range segments[:i+1] {
		if j == i && !seg.Matched {
			sb.WriteString(strings.TrimRight(seg.Text, " \t\n\r"))
			continue
		}
		if seg.Matched {
			sb.WriteString(seg.Match.Text)
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}
