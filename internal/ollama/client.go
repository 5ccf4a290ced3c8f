// Package ollama is a thin client for the Ollama /api/generate endpoint.
// The rest of the system depends only on the Generator interface, so any
// backend that can turn a prompt into a completion is sufficient.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Generator is the single text-generation capability the pipeline needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls an Ollama-compatible HTTP endpoint with fixed sampling
// options. Create one client per operation class (extraction vs writing)
// rather than mutating a shared instance.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	topP        float64
	client      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) {
		c.temperature = t
	}
}

// WithTopP sets nucleus sampling top-p.
func WithTopP(p float64) Option {
	return func(c *Client) {
		c.topP = p
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// NewClient creates a Client for the given base URL and model.
func NewClient(baseURL, model string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		model:       model,
		temperature: 0.7,
		topP:        0.9,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends prompt to the model and returns the completion text.
// Timeouts and transport failures surface as errors; callers decide
// whether a failure is fatal (it never is inside an interview).
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.temperature,
			TopP:        c.topP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", fmt.Errorf("ollama http status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Response, nil
}
