// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// Client talks to a local Ollama server: generation goes through
// langchaingo, model management (list/pull) through Ollama's HTTP API
// directly, which langchaingo does not expose.
type Client struct {
	baseURL string
	cfg     types.SummaryConfig
	http    *http.Client
}

// NewClient returns a Client for the configured Ollama server. Zero
// config fields fall back to the defaults.
func NewClient(cfg types.SummaryConfig) *Client {
	def := types.DefaultSummaryConfig()
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = def.OllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.TopP <= 0 {
		cfg.TopP = def.TopP
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.OllamaURL, "/"),
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate runs one summarization request against the model and returns
// the trimmed completion. The call is bounded by the configured timeout.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(c.baseURL),
		ollama.WithModel(req.Model),
		ollama.WithHTTPClient(c.http),
	)
	if err != nil {
		return "", fmt.Errorf("creating ollama client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	out, err := llms.GenerateFromSinglePrompt(ctx, llm, req.Prompt,
		llms.WithTemperature(c.cfg.Temperature),
		llms.WithTopP(c.cfg.TopP),
		llms.WithMaxTokens(c.cfg.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generating summary with %s: %w", req.Model, err)
	}

	summary := strings.TrimSpace(out)
	if summary == "" {
		return "", fmt.Errorf("model %s returned an empty summary", req.Model)
	}
	return summary, nil
}

// ListModels returns the names of models installed on the Ollama server.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing models (is Ollama running?): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned HTTP %d listing models", resp.StatusCode)
	}

	var tags struct {
		Models []struct {
			Name  string `json:"name"`
			Model string `json:"model"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("parsing model list: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// HasModel reports whether the named model is installed.
func (c *Client) HasModel(ctx context.Context, name string) (bool, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if m == name || strings.HasPrefix(m, name+":") {
			return true, nil
		}
	}
	return false, nil
}

// Pull downloads a model onto the Ollama server. Pulls can take minutes
// for large models, so the call is not bounded by the generation timeout.
func (c *Client) Pull(ctx context.Context, name string) error {
	body, err := json.Marshal(map[string]any{"model": name, "stream": false})
	if err != nil {
		return fmt.Errorf("marshaling pull request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("pulling model %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned HTTP %d pulling %s", resp.StatusCode, name)
	}

	var status struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("parsing pull response: %w", err)
	}
	if status.Status != "success" {
		return fmt.Errorf("pulling model %s: status %q", name, status.Status)
	}
	return nil
}
