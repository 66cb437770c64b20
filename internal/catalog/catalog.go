package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rina-librarian-go/internal/models"
	"github.com/rina-librarian-go/pkg/textnorm"
	"github.com/sirupsen/logrus"
)

// Catalog is the static book collection, loaded once at startup. A missing
// or unparsable data file degrades to an empty catalog instead of failing
// startup: the retrieval router then always falls through to the semantic
// or generic path.
type Catalog struct {
	books  []models.Book
	logger *logrus.Logger
}

// Load reads the catalog JSON file. Errors are logged and swallowed; the
// returned catalog is empty in that case, never nil.
func Load(path string, logger *logrus.Logger) *Catalog {
	c := &Catalog{logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("Catalog file unavailable, starting with empty catalog")
		return c
	}

	var books []models.Book
	if err := json.Unmarshal(data, &books); err != nil {
		logger.WithError(err).WithField("path", path).Warn("Catalog file unparsable, starting with empty catalog")
		return c
	}

	c.books = books
	logger.WithField("books", len(books)).Info("Catalog loaded")
	return c
}

// Books returns all entries in catalog order.
func (c *Catalog) Books() []models.Book {
	return c.books
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.books)
}

// SummaryByTitle returns the full summary for an exact (case-insensitive,
// trimmed) title, or false when the title is unknown.
func (c *Catalog) SummaryByTitle(title string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(title))
	for _, b := range c.books {
		if strings.ToLower(strings.TrimSpace(b.Title)) == want {
			return b.Summary, true
		}
	}
	return "", false
}

// DocumentFor renders a book as the text that gets embedded into the
// similarity index.
func DocumentFor(b models.Book) string {
	return fmt.Sprintf("Title: %s\nThemes: %s\nSummary: %s", b.Title, strings.Join(b.Themes, ", "), b.Summary)
}

// FoldTitle exposes the diacritic/case-insensitive form used for exact
// matching against queries.
func FoldTitle(title string) string {
	return textnorm.Fold(title)
}
