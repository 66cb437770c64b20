package chat

import (
	"fmt"
	"strings"

	"github.com/rina-librarian-go/internal/catalog"
	"github.com/rina-librarian-go/internal/retrieval"
)

// Composer builds the generation prompts for the two answer shapes: a
// conversational rewrite of a locally known summary, and an alternative
// recommendation when the catalog has nothing.
type Composer struct {
	catalog *catalog.Catalog
}

func NewComposer(cat *catalog.Catalog) *Composer {
	return &Composer{catalog: cat}
}

// Compose picks the prompt for a routed query. lang is the detected user
// language, question the translated query text.
func (c *Composer) Compose(result retrieval.Result, lang, question string) string {
	if result.Found() {
		title := result.BestTitle()
		summary, ok := c.catalog.SummaryByTitle(title)
		if !ok && len(result.Hits) > 0 {
			summary = result.Hits[0].SourceDoc
		}
		return c.rewritePrompt(title, summary, lang)
	}
	return c.alternativePrompt(lang, question)
}

func (c *Composer) rewritePrompt(title, summary, lang string) string {
	return fmt.Sprintf(
		"Cartea: %s\nRezumat:\n%s\n\nRescrie într-un răspuns scurt, conversațional, în limba %s.",
		title, summary, strings.ToUpper(lang),
	)
}

func (c *Composer) alternativePrompt(lang, question string) string {
	return fmt.Sprintf(
		"User language: %s\nUser asked: %s\nNu am găsit cartea în baza locală. Recomandă o ALTĂ carte relevantă și un rezumat scurt (2–4 fraze).",
		lang, question,
	)
}
