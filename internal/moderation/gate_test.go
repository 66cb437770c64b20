package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rina-librarian-go/internal/config"
	"github.com/rina-librarian-go/internal/i18n"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	politeRO = "Te rog să păstrăm o conversație civilizată."
	politeEN = "Please keep our conversation polite."
)

func newTestLocalizer(t *testing.T) *i18n.Localizer {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"ro.json": `{"moderation_reply": "` + politeRO + `"}`,
		"en.json": `{"moderation_reply": "` + politeEN + `"}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	loc, err := i18n.NewLocalizer(&config.I18nConfig{
		Dir:             dir,
		DefaultLanguage: "ro",
		Languages:       []string{"ro", "en"},
	})
	require.NoError(t, err)
	return loc
}

func newTestGate(t *testing.T, mode string) *Gate {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	return NewGate(newTestClassifier(), mode, newTestLocalizer(t), logger)
}

func TestGateBlockCleanText(t *testing.T) {
	g := newTestGate(t, ModeBlock)

	passed, out := g.Check("vreau o carte ca Dune")
	assert.True(t, passed)
	assert.Equal(t, "vreau o carte ca Dune", out)
}

func TestGateBlockProfaneRomanian(t *testing.T) {
	g := newTestGate(t, ModeBlock)

	passed, out := g.Check("esti un idiot")
	assert.False(t, passed)
	assert.Equal(t, politeRO, out)
}

func TestGateBlockProfaneEnglish(t *testing.T) {
	g := newTestGate(t, ModeBlock)

	passed, out := g.Check("fuck this")
	assert.False(t, passed)
	assert.Equal(t, politeEN, out)
}

func TestGateCensorLetsTextContinue(t *testing.T) {
	g := newTestGate(t, ModeCensor)

	passed, out := g.Check("esti un idiot, serios")
	assert.True(t, passed)
	assert.NotContains(t, out, "idiot")
	assert.Contains(t, out, "i★★★t")
}

func TestGateCensorCleanTextUnchanged(t *testing.T) {
	g := newTestGate(t, ModeCensor)

	passed, out := g.Check("orice carte despre curaj")
	assert.True(t, passed)
	assert.Equal(t, "orice carte despre curaj", out)
}
