package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanLaTeX(t *testing.T) {
	assert.Equal(t, "42", CleanLaTeX(`$\boxed{42}$`))
	assert.Equal(t, "x+y", CleanLaTeX(`$$x+y$$`))
	assert.Equal(t, "a formula here", CleanLaTeX(`a formula \(here\)`))
	assert.Equal(t, "untouched text", CleanLaTeX("untouched text"))
}

func TestRenderReply(t *testing.T) {
	assert.Equal(t, "", RenderReply(""))

	html := RenderReply("Îți recomand **Dune** de Frank Herbert.")
	assert.Contains(t, html, "<b>Dune</b>")
	assert.NotContains(t, html, "**")
}
