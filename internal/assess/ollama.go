// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assess scores enriched candidates: it drives the LLM retry loop,
// validates and normalizes the model output, and provides the heuristic
// fallback path used when the model service is unavailable.
// See docs/ARCHITECTURE § Scoring.
package assess

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// pingTimeout bounds the reachability check against /api/tags.
var pingTimeout = 10 * time.Second

// ConnectionError marks a transient gateway failure: connection refused,
// timeout, or a non-2xx status. Transient failures count against the
// candidate's attempt budget and are retried by the Scorer.
type ConnectionError struct {
	msg string
	err error
}

func (e *ConnectionError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *ConnectionError) Unwrap() error { return e.err }

// IsTransient reports whether err is a transient gateway failure.
func IsTransient(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// GenerateOptions is the serialized form of the request options, recorded
// verbatim in the trace for replayability.
type GenerateOptions struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	Format      string  `json:"format,omitempty"`
	Seed        int     `json:"seed,omitempty"`
	NumCtx      int     `json:"num_ctx,omitempty"`
}

// Gateway abstracts the model service so tests can supply a mock. It does
// not retry internally; retries belong to the Scorer.
type Gateway interface {
	// Generate sends one prompt and returns the raw response text. A
	// *ConnectionError is transient; any other error is terminal.
	Generate(ctx context.Context, prompt string) (string, error)

	// Options describes the request options used for every call.
	Options() GenerateOptions
}

// OllamaClient calls a local Ollama server's /api/generate endpoint.
type OllamaClient struct {
	BaseURL     string
	Model       string
	Temperature float64
	TopP        float64
	Seed        int
	NumCtx      int
	ForceJSON   bool
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// NewOllamaClient builds a client from the scoring configuration.
func NewOllamaClient(cfg types.OllamaConfig) *OllamaClient {
	host := strings.TrimRight(cfg.Host, "/")
	if host == "" {
		host = "http://localhost:11434"
	}
	return &OllamaClient{
		BaseURL:     host,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		Seed:        cfg.Seed,
		NumCtx:      cfg.NumCtx,
		ForceJSON:   cfg.ForceJSONFormat,
		Timeout:     cfg.Timeout(),
	}
}

// Options returns the request options sent with every generate call.
func (c *OllamaClient) Options() GenerateOptions {
	opts := GenerateOptions{
		Model:       c.Model,
		Temperature: c.Temperature,
		TopP:        c.TopP,
		Seed:        c.Seed,
		NumCtx:      c.NumCtx,
	}
	if c.ForceJSON {
		opts.Format = "json"
	}
	return opts
}

// generateRequest is the /api/generate request body.
type generateRequest struct {
	Model       string         `json:"model"`
	Prompt      string         `json:"prompt"`
	Temperature float64        `json:"temperature"`
	TopP        float64        `json:"top_p"`
	Format      string         `json:"format,omitempty"`
	Seed        int            `json:"seed,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
}

// generateChunk is one line of the streamed /api/generate response. Some
// models emit reasoning in "thinking" without a final "response" field.
type generateChunk struct {
	Response string `json:"response"`
	Thinking string `json:"thinking"`
	Done     bool   `json:"done"`
}

// Generate posts the prompt to /api/generate and concatenates the streamed
// response fragments. When the model emitted only thinking fragments, those
// are returned instead so the parser still has text to work with.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:       c.Model,
		Prompt:      prompt,
		Temperature: c.Temperature,
		TopP:        c.TopP,
		Seed:        c.Seed,
	}
	if c.ForceJSON {
		reqBody.Format = "json"
	}
	if c.NumCtx > 0 {
		reqBody.Options = map[string]any{"num_ctx": c.NumCtx}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling generate request: %w", err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", &ConnectionError{msg: fmt.Sprintf("connecting to Ollama at %s", c.BaseURL), err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ConnectionError{msg: "reading Ollama response", err: err}
	}

	if resp.StatusCode == http.StatusNotFound && strings.Contains(string(raw), "not found") {
		// The service explicitly reports an unknown model; retrying the
		// same request cannot succeed.
		return "", fmt.Errorf("model %q not found in Ollama (check `ollama list`)", c.Model)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ConnectionError{msg: fmt.Sprintf("Ollama returned HTTP %d", resp.StatusCode)}
	}

	var combined, thinking strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		var chunk generateChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			continue
		}
		combined.WriteString(chunk.Response)
		thinking.WriteString(chunk.Thinking)
	}

	if combined.Len() > 0 {
		return combined.String(), nil
	}
	if thinking.Len() > 0 {
		return thinking.String(), nil
	}
	return string(raw), nil
}

// Ping checks that the Ollama endpoint is reachable via /api/tags. It is
// called once per run before the retry loops start; on failure the whole
// run routes to heuristic scoring.
func (c *OllamaClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("creating ping request: %w", err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("Ollama service not available at %s: %w", c.BaseURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Ollama health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *OllamaClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
