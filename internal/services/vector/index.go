package vector

import (
	"context"
)

// Doc is one indexed document with its embedding.
type Doc struct {
	ID        string
	Title     string
	Text      string
	Embedding []float32
}

// Hit is a nearest-neighbor result. Distance is in [0,2] for cosine space;
// smaller is closer. Results from Query are ordered by ascending distance.
type Hit struct {
	Title    string
	Document string
	Distance float64
}

// Index is the external similarity service: add documents once at ingest,
// then query nearest neighbors by embedding.
type Index interface {
	Add(ctx context.Context, docs []Doc) error
	Query(ctx context.Context, embedding []float32, k int) ([]Hit, error)
}
