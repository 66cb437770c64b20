package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rina-librarian-go/internal/config"
	"github.com/sirupsen/logrus"
)

// ChromaIndex talks to an external Chroma collection over its REST API.
// The service returns results already ranked by ascending distance; no
// re-ranking happens here.
type ChromaIndex struct {
	config     *config.ChromaConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewChromaIndex creates a new Chroma-backed index
func NewChromaIndex(cfg *config.ChromaConfig, logger *logrus.Logger) *ChromaIndex {
	return &ChromaIndex{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

func (c *ChromaIndex) url(op string) string {
	return fmt.Sprintf("%s/api/v1/collections/%s/%s",
		strings.TrimSuffix(c.config.BaseURL, "/"), c.config.Collection, op)
}

func (c *ChromaIndex) post(ctx context.Context, url string, payload interface{}, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("Similarity service request failed")
		return fmt.Errorf("similarity service returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Add uploads documents and their embeddings to the collection.
func (c *ChromaIndex) Add(ctx context.Context, docs []Doc) error {
	ids := make([]string, len(docs))
	embeddings := make([][]float32, len(docs))
	metadatas := make([]map[string]string, len(docs))
	documents := make([]string, len(docs))

	for i, d := range docs {
		ids[i] = d.ID
		embeddings[i] = d.Embedding
		metadatas[i] = map[string]string{"title": d.Title}
		documents[i] = d.Text
	}

	payload := map[string]interface{}{
		"ids":        ids,
		"embeddings": embeddings,
		"metadatas":  metadatas,
		"documents":  documents,
	}

	return c.post(ctx, c.url("add"), payload, nil)
}

// Query runs a nearest-neighbor search for one embedding.
func (c *ChromaIndex) Query(ctx context.Context, embedding []float32, k int) ([]Hit, error) {
	payload := map[string]interface{}{
		"query_embeddings": [][]float32{embedding},
		"n_results":        k,
		"include":          []string{"documents", "metadatas", "distances"},
	}

	var result struct {
		Metadatas [][]map[string]string `json:"metadatas"`
		Documents [][]string            `json:"documents"`
		Distances [][]float64           `json:"distances"`
	}

	if err := c.post(ctx, c.url("query"), payload, &result); err != nil {
		return nil, err
	}

	if len(result.Metadatas) == 0 {
		return nil, nil
	}

	metas := result.Metadatas[0]
	hits := make([]Hit, 0, len(metas))
	for i, meta := range metas {
		hit := Hit{Title: meta["title"]}
		if len(result.Documents) > 0 && i < len(result.Documents[0]) {
			hit.Document = result.Documents[0][i]
		}
		if len(result.Distances) > 0 && i < len(result.Distances[0]) {
			hit.Distance = result.Distances[0][i]
		}
		hits = append(hits, hit)
	}

	return hits, nil
}
