package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "intuneric", StripDiacritics("întuneric"))
	assert.Equal(t, "fuck", StripDiacritics("fück"))
	assert.Equal(t, "esti", StripDiacritics("eşti"))
	assert.Equal(t, "plain", StripDiacritics("plain"))
	assert.Equal(t, "", StripDiacritics(""))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "mandria si prejudecata", Fold("  Mândria și Prejudecata "))
	assert.Equal(t, "dune", Fold("DUNE"))
}
