package vector

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// MemoryIndex is an in-process cosine-distance index. It is the default
// backend: the catalog is small enough that a linear scan is cheaper than a
// network round trip.
type MemoryIndex struct {
	mu     sync.RWMutex
	docs   []Doc
	logger *logrus.Logger
}

// NewMemoryIndex creates an empty in-memory index
func NewMemoryIndex(logger *logrus.Logger) *MemoryIndex {
	return &MemoryIndex{logger: logger}
}

// Add appends documents to the index.
func (m *MemoryIndex) Add(ctx context.Context, docs []Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = append(m.docs, docs...)
	m.logger.WithField("docs", len(m.docs)).Debug("Memory index updated")
	return nil
}

// Query returns the k nearest documents by cosine distance, closest first.
func (m *MemoryIndex) Query(ctx context.Context, embedding []float32, k int) ([]Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := make([]Hit, 0, len(m.docs))
	for _, doc := range m.docs {
		sim := cosineSimilarity(embedding, doc.Embedding)
		hits = append(hits, Hit{
			Title:    doc.Title,
			Document: doc.Text,
			Distance: 1 - float64(sim),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32

	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
