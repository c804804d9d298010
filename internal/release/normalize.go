package release

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName lowercases s, strips diacritics and surrounding whitespace, so
// that "Beyoncé " and "beyonce" compare equal.
func FoldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	// Casers are stateful, so each call gets its own.
	return strings.TrimSpace(cases.Fold().String(stripped))
}

// SameName reports whether two credited names refer to the same artist
// after folding.
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// punctuation matches non-alphanumeric, non-space characters.
var punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// multiSpace collapses multiple whitespace chars into one.
var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeTitle folds an album title for cross-source comparison:
// diacritics and case folded, punctuation removed, whitespace collapsed.
func NormalizeTitle(title string) string {
	s := FoldName(title)
	s = punctuation.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimFunc(s, unicode.IsSpace)
}

// TitleKey is the exact-match key used to group albums of the same title
// across sources: lowercased and trimmed, nothing else.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Similarity scores two titles between 0 and 1 on their normalized forms.
// A title fully contained in the other scores at least 0.9.
func Similarity(a, b string) float64 {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	ra, rb := []rune(na), []rune(nb)
	longest := max(len(ra), len(rb))
	score := 1 - float64(levenshtein(ra, rb))/float64(longest)
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		score = max(score, 0.9)
	}
	return score
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
