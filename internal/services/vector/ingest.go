package vector

import (
	"context"
	"fmt"

	"github.com/rina-librarian-go/internal/catalog"
	"github.com/rina-librarian-go/internal/services/embedding"
	"github.com/sirupsen/logrus"
)

// Ingest embeds every catalog entry and loads it into the index. Called once
// at startup; an empty catalog is a no-op.
func Ingest(ctx context.Context, cat *catalog.Catalog, embedder embedding.Client, index Index, logger *logrus.Logger) error {
	books := cat.Books()
	if len(books) == 0 {
		logger.Info("Catalog empty, skipping index ingest")
		return nil
	}

	texts := make([]string, len(books))
	for i, b := range books {
		texts[i] = catalog.DocumentFor(b)
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed catalog: %w", err)
	}

	docs := make([]Doc, len(books))
	for i, b := range books {
		docs[i] = Doc{
			ID:        fmt.Sprintf("book-%d", i),
			Title:     b.Title,
			Text:      texts[i],
			Embedding: vectors[i],
		}
	}

	if err := index.Add(ctx, docs); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	logger.WithField("books", len(docs)).Info("Catalog ingested into similarity index")
	return nil
}
