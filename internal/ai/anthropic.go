package ai

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

// DefaultAnthropicBaseURL is the public Anthropic API root.
const DefaultAnthropicBaseURL = "https://api.anthropic.com/v1"

// anthropicClient is the Completer backed by the Anthropic Messages API.
type anthropicClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicClient returns a Completer that calls the Anthropic API.
//   - apiKey:  your ANTHROPIC_API_KEY
//   - model:   e.g. "claude-3-5-haiku-latest"
//   - baseURL: "" means DefaultAnthropicBaseURL
//   - timeout: HTTP client timeout; 0 means 90s
func NewAnthropicClient(apiKey, model, baseURL string, timeout time.Duration) Completer {
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &anthropicClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ─── ANTHROPIC API SHAPES ─────────────────────────────────────────────────────

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ─── IMPLEMENTATION ───────────────────────────────────────────────────────────

// Complete sends one request to the Messages API and returns the text of the
// first text content block.
func (c *anthropicClient) Complete(ctx context.Context, r Request) (string, error) {
	bodyBytes, err := json.Marshal(anthropicRequest{
		Model:       c.model,
		MaxTokens:   r.MaxTokens,
		Temperature: r.Temperature,
		System:      r.System,
		Messages: []anthropicMessage{
			{Role: "user", Content: r.Prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/messages",
		bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("anthropic: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB cap
	if err != nil {
		return "", fmt.Errorf("anthropic: read response body: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("anthropic: unmarshal response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("anthropic: API error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	for _, block := range parsed.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("anthropic: %w", ErrEmptyCompletion)
}
