package text

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Canonicalize collapses every run of whitespace to a single space and trims
// the result. When unicode is true the text is first brought to NFKC, which
// folds ligatures and compatibility forms ("ﬁ" -> "fi", full-width digits).
func Canonicalize(s string, unicode bool) string {
	if unicode && !norm.NFKC.IsNormalString(s) {
		s = norm.NFKC.String(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// JoinSpans trims each piece and joins the pieces with single spaces.
// Empty pieces still contribute a separator; Canonicalize removes the
// resulting double spaces.
func JoinSpans(pieces []string) string {
	trimmed := make([]string, len(pieces))
	for i, p := range pieces {
		trimmed[i] = strings.TrimSpace(p)
	}
	return strings.Join(trimmed, " ")
}

// Words splits text on whitespace
func Words(s string) []string {
	return strings.Fields(s)
}

// DistinctWords returns the number of distinct words (exact match)
func DistinctWords(words []string) int {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return len(seen)
}

// MeanWordLength returns the mean number of runes per word, or 0 for no words
func MeanWordLength(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += utf8.RuneCountInString(w)
	}
	return float64(total) / float64(len(words))
}

// RuneCount returns the number of runes in the trimmed text
func RuneCount(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
