package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks from text ("fück" -> "fuck",
// "întuneric" -> "intuneric"). Input that fails to transform is returned
// unchanged.
func StripDiacritics(text string) string {
	out, _, err := transform.String(stripper, text)
	if err != nil {
		return text
	}
	return out
}

// Fold lower-cases text, strips diacritics and trims surrounding whitespace.
// Used for diacritic/case-insensitive comparisons such as catalog title
// matching.
func Fold(text string) string {
	return strings.TrimSpace(StripDiacritics(strings.ToLower(text)))
}
