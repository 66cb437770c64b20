package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rina-librarian-go/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(upstream http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(upstream)
	cfg := &config.ModelsConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		ChatModel:      "test-model",
		Temperature:    0.4,
		RequestTimeout: 2 * time.Second,
	}
	return NewClient(cfg, logrus.New()), srv
}

func completionReply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}
}

func TestGenerate(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		completionReply("Îți recomand Dune.")(w, r)
	})
	defer srv.Close()

	out, err := client.Generate(context.Background(), "recomandă o carte", 0.4)
	require.NoError(t, err)
	assert.Equal(t, "Îți recomand Dune.", out)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestGenerateUpstreamError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := client.Generate(context.Background(), "x", 0.4)
	assert.Error(t, err)
}

func TestGenerateEmptyChoices(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})
	defer srv.Close()

	_, err := client.Generate(context.Background(), "x", 0.4)
	assert.Error(t, err)
}

func TestDetectAndTranslate(t *testing.T) {
	client, srv := newTestClient(completionReply(`{"lang": "en", "ro": "vreau o carte despre război"}`))
	defer srv.Close()

	lang, translated := client.DetectAndTranslate(context.Background(), "I want a book about war")
	assert.Equal(t, "en", lang)
	assert.Equal(t, "vreau o carte despre război", translated)
}

func TestDetectAndTranslateMalformedReply(t *testing.T) {
	client, srv := newTestClient(completionReply("sure! here is the JSON you asked for"))
	defer srv.Close()

	lang, translated := client.DetectAndTranslate(context.Background(), "original question")
	assert.Equal(t, "ro", lang)
	assert.Equal(t, "original question", translated)
}

func TestDetectAndTranslateUpstreamDown(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	lang, translated := client.DetectAndTranslate(context.Background(), "salut")
	assert.Equal(t, "ro", lang)
	assert.Equal(t, "salut", translated)
}

func TestDetectAndTranslatePartialJSON(t *testing.T) {
	client, srv := newTestClient(completionReply(`{"lang": "", "ro": ""}`))
	defer srv.Close()

	lang, translated := client.DetectAndTranslate(context.Background(), "text")
	assert.Equal(t, "ro", lang)
	assert.Equal(t, "text", translated)
}
