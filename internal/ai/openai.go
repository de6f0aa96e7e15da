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

// DefaultOpenAIBaseURL is the public OpenAI API root. Any OpenAI-compatible
// endpoint (DeepSeek, a local gateway) can be substituted.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// openAIClient is the Completer backed by an OpenAI-compatible
// /chat/completions endpoint.
type openAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient returns a Completer that calls an OpenAI-compatible API.
//   - apiKey:  your OPENAI_API_KEY
//   - model:   e.g. "gpt-3.5-turbo"
//   - baseURL: API root without trailing slash; "" means DefaultOpenAIBaseURL
//   - timeout: HTTP client timeout; 0 means 90s
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) Completer {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &openAIClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ─── OPENAI-COMPATIBLE API SHAPES ────────────────────────────────────────────

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	N           int             `json:"n"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ─── IMPLEMENTATION ───────────────────────────────────────────────────────────

// Complete sends one chat completion request and returns the content of the
// first choice.
func (c *openAIClient) Complete(ctx context.Context, r Request) (string, error) {
	reqBody := openAIRequest{
		Model:       c.model,
		MaxTokens:   r.MaxTokens,
		Temperature: r.Temperature,
		N:           1,
		Messages: []openAIMessage{
			{Role: "system", Content: r.System},
			{Role: "user", Content: r.Prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("openai: unmarshal response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("openai: API error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}

	text := parsed.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyCompletion)
	}
	return text, nil
}
