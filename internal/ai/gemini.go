package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiClient is the Completer backed by Google's Gemini API through the
// official genai SDK.
type geminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient returns a Completer that calls the Gemini API.
//   - apiKey:  your GEMINI_API_KEY
//   - model:   e.g. "gemini-2.0-flash"; "" selects that default
//   - timeout: per-call deadline; 0 means 90s
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (Completer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &geminiClient{client: client, model: model, timeout: timeout}, nil
}

// Complete generates a single candidate for the prompt.
func (c *geminiClient) Complete(ctx context.Context, r Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(r.Prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(r.System, genai.RoleUser),
			Temperature:       genai.Ptr(float32(r.Temperature)),
			MaxOutputTokens:   int32(r.MaxTokens),
			CandidateCount:    1,
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyCompletion)
	}
	return text, nil
}
