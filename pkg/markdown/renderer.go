package markdown

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	boxedRe    = regexp.MustCompile(`\$\\boxed{(.+?)}\$`)
	latexRepl  = strings.NewReplacer("$$", "", `\(`, "", `\)`, "", `\boxed`, "", "$", "")
	paraRe     = regexp.MustCompile(`<p>(.*?)</p>`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
)

// CleanLaTeX strips LaTeX wrappers that generation models sometimes emit
// ($$...$$, \( \), \boxed{...}) so replies read as plain prose.
func CleanLaTeX(text string) string {
	text = boxedRe.ReplaceAllString(text, "$1")
	return latexRepl.Replace(text)
}

// RenderReply converts a model reply to HTML suitable for a web client:
// LaTeX artifacts are removed and markdown formatting is rendered.
func RenderReply(reply string) string {
	if reply == "" {
		return ""
	}

	cleaned := CleanLaTeX(reply)
	html := string(blackfriday.Run([]byte(cleaned), blackfriday.WithExtensions(blackfriday.CommonExtensions)))

	// Keep the markup minimal for chat bubbles
	html = paraRe.ReplaceAllString(html, "$1\n")
	html = strings.ReplaceAll(html, "<strong>", "<b>")
	html = strings.ReplaceAll(html, "</strong>", "</b>")
	html = strings.ReplaceAll(html, "<em>", "<i>")
	html = strings.ReplaceAll(html, "</em>", "</i>")
	html = newlinesRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
