package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase", "HELLO", "hello"},
		{"diacritics", "eşti tâmpit", "esti tampit"},
		{"leet", "pr0st", "prost"},
		{"leet symbols", "a$$h0le", "asshole"},
		{"repeats collapsed to two", "fuuuuck", "fuuck"},
		{"whitespace collapsed", "a  b\t\nc", "a b c"},
		{"trimmed", "  salut  ", "salut"},
		{"combined", "  PR0ŞŞŞT  de tot ", "prosst de tot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "Dune", "eşti un idi0t!!", "fuuuuck   this", "  PR0ST  ",
		"vreau o carte despre prietenie și magie",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize should be idempotent for %q", in)
	}
}
