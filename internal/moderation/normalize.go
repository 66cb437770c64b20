package moderation

import (
	"regexp"
	"strings"

	"github.com/rina-librarian-go/pkg/textnorm"
)

// leetMap undoes common look-alike substitutions used to sneak words past
// a filter ("pr0st", "fu7u7").
var leetMap = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'@': 'a',
	'$': 's',
}

var spaceRe = regexp.MustCompile(`\s+`)

// Normalize canonicalizes raw text into the comparable form used by the
// profanity classifier: lower-case, diacritics stripped, leet substitutions
// undone, runs of 3+ identical characters collapsed to 2, whitespace
// collapsed and trimmed. Pure and idempotent; empty input maps to empty
// output.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = textnorm.StripDiacritics(t)
	t = strings.Map(func(r rune) rune {
		if sub, ok := leetMap[r]; ok {
			return sub
		}
		return r
	}, t)
	t = collapseRepeats(t)
	t = spaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// collapseRepeats reduces any run of 3 or more identical runes to exactly
// two ("fuuuuck" -> "fuuck").
func collapseRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var prev rune = -1
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run <= 2 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
