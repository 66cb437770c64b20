package vector

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndexQueryOrdering(t *testing.T) {
	idx := NewMemoryIndex(logrus.New())
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, []Doc{
		{ID: "a", Title: "Orthogonal", Text: "doc a", Embedding: []float32{0, 1}},
		{ID: "b", Title: "Aligned", Text: "doc b", Embedding: []float32{1, 0}},
		{ID: "c", Title: "Diagonal", Text: "doc c", Embedding: []float32{1, 1}},
	}))

	hits, err := idx.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "Aligned", hits[0].Title)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
	assert.Equal(t, "Diagonal", hits[1].Title)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestMemoryIndexEmpty(t *testing.T) {
	idx := NewMemoryIndex(logrus.New())

	hits, err := idx.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryIndexMismatchedDimensions(t *testing.T) {
	idx := NewMemoryIndex(logrus.New())
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, []Doc{{ID: "a", Title: "A", Embedding: []float32{1, 0, 0}}}))

	hits, err := idx.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	// incomparable vectors score zero similarity, i.e. distance 1
	assert.InDelta(t, 1.0, hits[0].Distance, 1e-6)
}
