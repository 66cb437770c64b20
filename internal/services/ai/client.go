package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rina-librarian-go/internal/config"
	"github.com/sirupsen/logrus"
)

// Service is the external text-generation service. Calls are blocking,
// single-attempt, bounded by the configured request timeout; there is no
// internal retry or backoff.
type Service interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
	DetectAndTranslate(ctx context.Context, text string) (lang string, translated string)
}

const systemPrompt = "You are a helpful, concise assistant."

// Client implements Service against an OpenAI-compatible chat completions
// endpoint.
type Client struct {
	config     *config.ModelsConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new generation client
func NewClient(cfg *config.ModelsConfig, logger *logrus.Logger) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// Generate sends one completion request and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.config.ChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimSuffix(c.config.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	c.logger.WithFields(logrus.Fields{
		"model": c.config.ChatModel,
		"url":   url,
	}).Debug("Sending generation request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("Generation request failed")
		return "", fmt.Errorf("generation request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("generation error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from generation service")
	}

	return result.Choices[0].Message.Content, nil
}

// translation is the schema the model is asked to answer with.
type translation struct {
	Lang string `json:"lang"`
	RO   string `json:"ro"`
}

// DetectAndTranslate asks the model for the language of text and its
// Romanian translation. Any failure (transport, malformed or non-JSON reply)
// falls back to lang="ro" and the original text; this method never returns
// an error because the pipeline can always continue with the untranslated
// question.
func (c *Client) DetectAndTranslate(ctx context.Context, text string) (string, string) {
	prompt := fmt.Sprintf(
		"Detectează limba următorului text și traduce-l în română. "+
			"Răspunde STRICT în JSON cu cheile: lang, ro.\n\nText: ```%s```", text)

	raw, err := c.Generate(ctx, prompt, 0.0)
	if err != nil {
		c.logger.WithError(err).Warn("Language detection failed, assuming Romanian")
		return "ro", text
	}

	var tr translation
	if err := json.Unmarshal([]byte(raw), &tr); err != nil {
		c.logger.WithField("reply", raw).Warn("Malformed translation reply, assuming Romanian")
		return "ro", text
	}

	lang := strings.ToLower(strings.TrimSpace(tr.Lang))
	if lang == "" {
		lang = "ro"
	}
	translated := tr.RO
	if translated == "" {
		translated = text
	}

	return lang, translated
}
