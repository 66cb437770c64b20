package retrieval

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rina-librarian-go/internal/catalog"
	"github.com/rina-librarian-go/internal/services/vector"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	calls int
	err   error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type stubIndex struct {
	calls int
	hits  []vector.Hit
	err   error
}

func (s *stubIndex) Add(ctx context.Context, docs []vector.Doc) error { return nil }

func (s *stubIndex) Query(ctx context.Context, embedding []float32, k int) ([]vector.Hit, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.hits) > k {
		return s.hits[:k], nil
	}
	return s.hits, nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"title": "Dune", "themes": ["deșert"], "summary": "Arrakis."},
		{"title": "Mândrie și prejudecată", "themes": ["dragoste"], "summary": "Elizabeth Bennet."}
	]`), 0644))
	return catalog.Load(path, logrus.New())
}

func newTestRouter(t *testing.T, emb *stubEmbedder, idx *stubIndex) *Router {
	t.Helper()
	return NewRouter(testCatalog(t), emb, idx, 3, logrus.New())
}

func TestRouteExactMatchSkipsSimilarityService(t *testing.T) {
	emb := &stubEmbedder{}
	idx := &stubIndex{}
	r := newTestRouter(t, emb, idx)

	res := r.Route(context.Background(), "vreau o carte ca Dune")

	assert.Equal(t, "Dune", res.Title)
	assert.True(t, res.Found())
	assert.Equal(t, "Dune", res.BestTitle())
	assert.Zero(t, emb.calls, "exact path must not embed the query")
	assert.Zero(t, idx.calls, "exact path must not touch the index")
}

func TestRouteExactMatchIsDiacriticInsensitive(t *testing.T) {
	idx := &stubIndex{}
	r := newTestRouter(t, &stubEmbedder{}, idx)

	res := r.Route(context.Background(), "ai ceva gen MANDRIE SI PREJUDECATA?")

	assert.Equal(t, "Mândrie și prejudecată", res.Title)
	assert.Zero(t, idx.calls)
}

func TestRouteSemanticFallback(t *testing.T) {
	idx := &stubIndex{hits: []vector.Hit{
		{Title: "Dune", Document: "doc dune", Distance: 0.1},
		{Title: "Mândrie și prejudecată", Document: "doc mp", Distance: 0.4},
	}}
	r := newTestRouter(t, &stubEmbedder{}, idx)

	res := r.Route(context.Background(), "ceva despre nisip și viermi uriași")

	require.Empty(t, res.Title)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, "Dune", res.Hits[0].Title)
	assert.InDelta(t, 0.9, res.Hits[0].Score, 1e-9)
	assert.InDelta(t, 0.6, res.Hits[1].Score, 1e-9)
	assert.Equal(t, "doc dune", res.Hits[0].SourceDoc)
	assert.Equal(t, "Dune", res.BestTitle())
}

func TestRouteSemanticEmptyMeansNoResult(t *testing.T) {
	r := newTestRouter(t, &stubEmbedder{}, &stubIndex{})

	res := r.Route(context.Background(), "o carte complet necunoscută")

	assert.False(t, res.Found())
	assert.Empty(t, res.BestTitle())
}

func TestRouteIndexErrorMeansNoResult(t *testing.T) {
	r := newTestRouter(t, &stubEmbedder{}, &stubIndex{err: errors.New("index down")})

	res := r.Route(context.Background(), "ceva istoric")

	assert.False(t, res.Found())
}

func TestRouteEmbedderErrorMeansNoResult(t *testing.T) {
	idx := &stubIndex{hits: []vector.Hit{{Title: "Dune", Distance: 0.1}}}
	r := newTestRouter(t, &stubEmbedder{err: errors.New("embedding down")}, idx)

	res := r.Route(context.Background(), "ceva istoric")

	assert.False(t, res.Found())
	assert.Zero(t, idx.calls, "index must not be queried without an embedding")
}

func TestRouteEmptyCatalogFallsThrough(t *testing.T) {
	cat := catalog.Load(filepath.Join(t.TempDir(), "missing.json"), logrus.New())
	idx := &stubIndex{hits: []vector.Hit{{Title: "Dune", Distance: 0.2}}}
	r := NewRouter(cat, &stubEmbedder{}, idx, 3, logrus.New())

	res := r.Route(context.Background(), "vreau o carte ca Dune")

	assert.Empty(t, res.Title)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, 1, idx.calls)
}
