package importer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenthesized = regexp.MustCompile(`\(.*?\)`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9 ]+`)
	spaces        = regexp.MustCompile(`\s+`)
)

// NormalizeName folds a course name for fuzzy comparison: lowercase,
// diacritics stripped, parenthesized text and anything after ':' dropped,
// and every other non-alphanumeric run collapsed to one space. Letters with
// no decomposition (æ, ø) are dropped like punctuation.
func NormalizeName(name string) string {
	text := strings.TrimSpace(strings.ToLower(name))

	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(stripMarks, text); err == nil {
		text = folded
	}

	text = parenthesized.ReplaceAllString(text, "")
	text, _, _ = strings.Cut(text, ":")
	text = nonAlnum.ReplaceAllString(text, " ")
	text = spaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Similarity is 1 minus the Levenshtein distance over the longer length, in
// [0,1]. Empty strings never match.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
