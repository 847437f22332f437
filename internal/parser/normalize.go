package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NotInformed is the sentinel used for empty responsible/status cells. It is
// already in normalized (accent-stripped) form so NormalizeText is a no-op on it.
const NotInformed = "NAO INFORMADO"

// foldTransformer decomposes to NFD and drops combining marks, turning
// "SITUAÇÃO" into "SITUACAO".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText trims, upper-cases and strips diacritics.
// Idempotent: NormalizeText(NormalizeText(x)) == NormalizeText(x). Applied
// identically to cell text, roster members, status keywords and column
// candidates so comparisons stay consistent.
func NormalizeText(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeColumnName normalizes a raw column header: fold like NormalizeText
// and collapse internal whitespace (headers often carry stray newlines and
// double spaces).
func NormalizeColumnName(name string) string {
	return strings.Join(strings.Fields(NormalizeText(name)), " ")
}

// ContainsAny reports whether text contains any of the keywords.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
