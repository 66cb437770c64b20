package moderation

import (
	"testing"
	"unicode/utf8"

	"github.com/rina-librarian-go/internal/config"
	"github.com/rina-librarian-go/internal/models"
	"github.com/stretchr/testify/assert"
)

func newTestClassifier() *Classifier {
	return NewClassifier(&config.ModerationConfig{Mode: ModeBlock})
}

func TestClassifyCleanText(t *testing.T) {
	c := newTestClassifier()

	for _, in := range []string{
		"",
		"vreau o carte despre prietenie si magie",
		"recommend me a book like Dune",
		"ce mai faci?",
	} {
		assert.False(t, c.Classify(in).Profane, "expected clean verdict for %q", in)
	}
}

func TestClassifyExactTokens(t *testing.T) {
	c := newTestClassifier()

	v := c.Classify("esti un idiot")
	assert.True(t, v.Profane)
	assert.Equal(t, models.LangRO, v.Lang)

	v = c.Classify("what the fuck")
	assert.True(t, v.Profane)
	assert.Equal(t, models.LangEN, v.Lang)
}

func TestClassifyObfuscatedVariants(t *testing.T) {
	c := newTestClassifier()

	// leet substitution
	assert.True(t, c.Classify("pr0st").Profane)
	// accents survive normalization
	assert.True(t, c.Classify("fück").Profane)
	// punctuation glued to the word falls through to the substring scan
	assert.True(t, c.Classify("idiot!!").Profane)
	assert.True(t, c.Classify("ass-hole").Profane)
}

func TestClassifyPhrasePattern(t *testing.T) {
	c := newTestClassifier()

	v := c.Classify("pari foarte dobitoc azi")
	assert.True(t, v.Profane)
	assert.Equal(t, models.LangRO, v.Lang)
}

func TestClassifyRomanianCheckedFirst(t *testing.T) {
	c := NewClassifier(&config.ModerationConfig{
		ExtraWordsRO: []string{"shared"},
		ExtraWordsEN: []string{"shared"},
	})

	v := c.Classify("shared")
	assert.True(t, v.Profane)
	assert.Equal(t, models.LangRO, v.Lang, "language A wins on ambiguous matches")
}

func TestCensorizePreservesShape(t *testing.T) {
	c := newTestClassifier()

	in := "esti un idiot, serios!"
	out := c.Censorize(in)

	assert.Equal(t, utf8.RuneCountInString(in), utf8.RuneCountInString(out))
	assert.Contains(t, out, ", ")
	assert.Contains(t, out, "!")
	assert.NotContains(t, out, "idiot")
	// first and last characters of the masked token survive
	assert.Contains(t, out, "i★★★t")
}

func TestCensorizeShortTokensFullyMasked(t *testing.T) {
	c := NewClassifier(&config.ModerationConfig{ExtraWordsRO: []string{"ba"}})

	out := c.Censorize("ba ba")
	assert.Equal(t, "★★ ★★", out)
}

func TestCensorizeCleanTextUnchanged(t *testing.T) {
	c := newTestClassifier()

	in := "O carte despre curaj, te rog."
	assert.Equal(t, in, c.Censorize(in))
}
