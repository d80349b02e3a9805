package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the language-model surface the rest of the service consumes:
// embeddings for similarity retrieval and text generation for digests and
// the chat assistant. Faked in tests.
type Client interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	GenerateText(ctx context.Context, system, user string) (string, error)
}

type Options struct {
	BaseURL    string
	APIKey     string
	Model      string
	EmbedModel string
}

// HTTPClient talks to an Ollama-compatible JSON API.
type HTTPClient struct {
	opts   Options
	client *http.Client
}

func NewHTTPClient(opts Options) *HTTPClient {
	return &HTTPClient{
		opts:   opts,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (c *HTTPClient) Embed(ctx context.Context, text string) ([]float64, error) {
	var out embedResponse
	err := c.post(ctx, "/api/embeddings", embedRequest{
		Model:  c.opts.EmbedModel,
		Prompt: text,
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("embedding provider returned empty vector")
	}
	return out.Embedding, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *HTTPClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	var out generateResponse
	err := c.post(ctx, "/api/generate", generateRequest{
		Model:  c.opts.Model,
		System: system,
		Prompt: user,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("llm api error (status %d): %s", resp.StatusCode, string(msg))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
