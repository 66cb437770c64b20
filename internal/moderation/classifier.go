package moderation

import (
	"regexp"
	"strings"

	"github.com/rina-librarian-go/internal/config"
	"github.com/rina-librarian-go/internal/models"
)

// Default word lists, already in normalized form. Config can extend but not
// replace them; the two sets stay disjoint per language.
var defaultWordsRO = []string{
	"pula", "pizda", "muie", "futut", "fute", "dracului", "javra",
	"prost", "proasta", "idiot", "idiota", "imbecil", "tampit", "tampita",
	"cretin", "cretina", "nesimtit", "nesimtita", "bou", "dobitoc", "jigar",
	"handicapat", "handicapata", "retard", "retardat",
}

var defaultWordsEN = []string{
	"fuck", "fucking", "fucker", "motherfucker", "shit", "bitch", "bastard",
	"asshole", "dick", "cock", "pussy", "cunt", "slut",
}

// Templated insult phrases ("esti prost", "pari foarte cretin"). Matched
// against normalized text, so diacritics are already gone.
var phraseRe = regexp.MustCompile(
	`\b(esti|sunt|pari|erai)\s+(foarte\s+)?` +
		`(prost|proasta|bou|cretin|cretina|idiot|idiota|imbecil|tampit|tampita|nesimtit|nesimtita|dobitoc|handicapat|handicapata|retard|retardat)\b`)

var (
	wordTokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\p{L}\p{N}_]+`)
	wordRuneRe  = regexp.MustCompile(`[\p{L}\p{N}_]`)
)

const maskRune = '★'

// Classifier decides whether text contains profanity and in which language.
// Word lists are fixed at construction; the zero value is not usable.
type Classifier struct {
	wordsRO map[string]struct{}
	wordsEN map[string]struct{}
	// ordered copies for the deterministic substring scan (RO before EN)
	listRO []string
	listEN []string
}

// NewClassifier builds a classifier from the built-in bilingual word lists
// plus any extra words from configuration. Extra words are normalized before
// use so config may carry diacritics or leet forms.
func NewClassifier(cfg *config.ModerationConfig) *Classifier {
	c := &Classifier{
		wordsRO: make(map[string]struct{}),
		wordsEN: make(map[string]struct{}),
	}

	add := func(set map[string]struct{}, list *[]string, words []string) {
		for _, w := range words {
			norm := Normalize(w)
			if norm == "" {
				continue
			}
			if _, ok := set[norm]; ok {
				continue
			}
			set[norm] = struct{}{}
			*list = append(*list, norm)
		}
	}

	add(c.wordsRO, &c.listRO, defaultWordsRO)
	add(c.wordsEN, &c.listEN, defaultWordsEN)
	if cfg != nil {
		add(c.wordsRO, &c.listRO, cfg.ExtraWordsRO)
		add(c.wordsEN, &c.listEN, cfg.ExtraWordsEN)
	}

	return c
}

// Classify reports whether text is profane and which language's reply
// template applies. Romanian is checked first and is the default when the
// match carries no clear language signal (documented behavior, preserved
// deliberately).
func (c *Classifier) Classify(text string) models.ProfanityVerdict {
	norm := Normalize(text)

	// 1) exact token membership
	for _, tok := range strings.Fields(norm) {
		if _, ok := c.wordsRO[tok]; ok {
			return models.ProfanityVerdict{Profane: true, Lang: models.LangRO}
		}
		if _, ok := c.wordsEN[tok]; ok {
			return models.ProfanityVerdict{Profane: true, Lang: models.LangEN}
		}
	}

	// 2) substring fallback for concatenations and punctuation survivors
	// ("idiot!!", "ass-hole" after normalization)
	for _, bad := range c.listRO {
		if strings.Contains(norm, bad) {
			return models.ProfanityVerdict{Profane: true, Lang: models.LangRO}
		}
	}
	for _, bad := range c.listEN {
		if strings.Contains(norm, bad) {
			return models.ProfanityVerdict{Profane: true, Lang: models.LangEN}
		}
	}

	// 3) templated insult phrases
	if phraseRe.MatchString(norm) {
		return models.ProfanityVerdict{Profane: true, Lang: models.LangRO}
	}

	return models.ProfanityVerdict{Profane: false, Lang: models.LangRO}
}

// Censorize masks profane tokens in the original (non-normalized) text while
// preserving spacing and punctuation exactly. Masked tokens keep their first
// and last character; tokens of one or two characters are fully masked. The
// output always has the same rune length as the input.
func (c *Classifier) Censorize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, tok := range wordTokenRe.FindAllString(text, -1) {
		if wordRuneRe.MatchString(tok) && c.Classify(tok).Profane {
			b.WriteString(maskWord(tok))
		} else {
			b.WriteString(tok)
		}
	}
	return b.String()
}

func maskWord(w string) string {
	runes := []rune(w)
	if len(runes) <= 2 {
		return strings.Repeat(string(maskRune), len(runes))
	}
	return string(runes[0]) + strings.Repeat(string(maskRune), len(runes)-2) + string(runes[len(runes)-1])
}
