package retrieval

import (
	"context"
	"strings"

	"github.com/rina-librarian-go/internal/catalog"
	"github.com/rina-librarian-go/internal/models"
	"github.com/rina-librarian-go/internal/services/embedding"
	"github.com/rina-librarian-go/internal/services/vector"
	"github.com/rina-librarian-go/pkg/textnorm"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of routing one query. Title is set when the exact
// catalog path matched; Hits carries semantic results otherwise. Both empty
// means no result, and the caller falls back to a generic recommendation.
type Result struct {
	Title string
	Hits  []models.RetrievalHit
}

// Found reports whether either path produced something.
func (r Result) Found() bool {
	return r.Title != "" || len(r.Hits) > 0
}

// BestTitle returns the matched catalog title or the top-ranked semantic hit.
func (r Result) BestTitle() string {
	if r.Title != "" {
		return r.Title
	}
	if len(r.Hits) > 0 {
		return r.Hits[0].Title
	}
	return ""
}

// Router resolves a cleaned, translated query against the catalog.
// The exact local path runs first; catalog matches are authoritative and
// skip the similarity service entirely.
type Router struct {
	catalog  *catalog.Catalog
	embedder embedding.Client
	index    vector.Index
	topK     int
	logger   *logrus.Logger
}

// NewRouter creates a retrieval router
func NewRouter(cat *catalog.Catalog, embedder embedding.Client, index vector.Index, topK int, logger *logrus.Logger) *Router {
	return &Router{
		catalog:  cat,
		embedder: embedder,
		index:    index,
		topK:     topK,
		logger:   logger,
	}
}

// Route finds the catalog title the query refers to. Failures on the
// semantic path are logged and reported as "no result"; Route never returns
// an error.
func (r *Router) Route(ctx context.Context, query string) Result {
	if title, ok := r.exactMatch(query); ok {
		r.logger.WithField("title", title).Debug("Exact catalog match")
		return Result{Title: title}
	}

	return Result{Hits: r.semanticSearch(ctx, query)}
}

// exactMatch scans catalog titles for diacritic/case-insensitive substring
// containment in the query. First catalog-order match wins.
func (r *Router) exactMatch(query string) (string, bool) {
	folded := textnorm.Fold(query)
	for _, b := range r.catalog.Books() {
		title := catalog.FoldTitle(b.Title)
		if title != "" && strings.Contains(folded, title) {
			return b.Title, true
		}
	}
	return "", false
}

func (r *Router) semanticSearch(ctx context.Context, query string) []models.RetrievalHit {
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		r.logger.WithError(err).Warn("Query embedding failed, reporting no result")
		return nil
	}
	if len(vectors) == 0 {
		return nil
	}

	found, err := r.index.Query(ctx, vectors[0], r.topK)
	if err != nil {
		r.logger.WithError(err).Warn("Similarity search failed, reporting no result")
		return nil
	}

	// Results arrive ranked by ascending distance; expose score = 1 - distance.
	hits := make([]models.RetrievalHit, 0, len(found))
	for _, h := range found {
		hits = append(hits, models.RetrievalHit{
			Title:     h.Title,
			Score:     1 - h.Distance,
			SourceDoc: h.Document,
		})
	}

	return hits
}
