package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/financial-agent-backend/internal/ai"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

type stubCompleter struct {
	text  string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _ ai.Request) (string, error) {
	s.calls++
	return s.text, s.err
}

// discardLogger returns a *slog.Logger that silently drops all log output.
// fallback.go calls f.logger.Warn(), which panics on nil.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var sampleRequest = ai.Request{
	System:      "You are an expert financial consultant.",
	Prompt:      "Analyse this cafe.",
	MaxTokens:   1500,
	Temperature: 0.7,
}

// ─── FallbackCompleter ────────────────────────────────────────────────────────

func TestFallbackCompleter_PrimarySucceeds_SecondaryNotCalled(t *testing.T) {
	primary := &stubCompleter{text: "primary narrative"}
	secondary := &stubCompleter{text: "secondary narrative"}

	c := ai.NewFallbackCompleter(primary, secondary, discardLogger())

	text, err := c.Complete(context.Background(), sampleRequest)
	require.NoError(t, err)
	assert.Equal(t, "primary narrative", text)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, secondary.calls)
}

func TestFallbackCompleter_PrimaryFails_SecondaryUsedOnce(t *testing.T) {
	primary := &stubCompleter{err: errors.New("openai timeout")}
	secondary := &stubCompleter{text: "secondary narrative"}

	c := ai.NewFallbackCompleter(primary, secondary, discardLogger())

	text, err := c.Complete(context.Background(), sampleRequest)
	require.NoError(t, err)
	assert.Equal(t, "secondary narrative", text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackCompleter_BothFail_ReturnsSecondaryError(t *testing.T) {
	secondaryErr := errors.New("secondary error")
	c := ai.NewFallbackCompleter(
		&stubCompleter{err: errors.New("primary error")},
		&stubCompleter{err: secondaryErr},
		discardLogger(),
	)

	_, err := c.Complete(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, secondaryErr)
}

func TestFallbackCompleter_NilSecondary_PrimaryErrorBubbles(t *testing.T) {
	primaryErr := errors.New("primary blew up")
	c := ai.NewFallbackCompleter(&stubCompleter{err: primaryErr}, nil, discardLogger())

	_, err := c.Complete(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, primaryErr)
}

func TestFallbackCompleter_NilPrimary_UsesSecondaryDirectly(t *testing.T) {
	secondary := &stubCompleter{text: "only secondary"}
	c := ai.NewFallbackCompleter(nil, secondary, discardLogger())

	text, err := c.Complete(context.Background(), sampleRequest)
	require.NoError(t, err)
	assert.Equal(t, "only secondary", text)
}

func TestFallbackCompleter_BothNil_ErrNoProvider(t *testing.T) {
	_, err := ai.NewFallbackCompleter(nil, nil, discardLogger()).Complete(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, ai.ErrNoProvider)
}

func TestUnavailable_AlwaysFails(t *testing.T) {
	_, err := ai.Unavailable().Complete(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, ai.ErrNoProvider)
}

// ─── OpenAI-compatible client ─────────────────────────────────────────────────

func TestOpenAIClient_SendsOneCompletionRequest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Grow carefully."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := ai.NewOpenAIClient("sk-test", "gpt-3.5-turbo", srv.URL, time.Second)
	text, err := c.Complete(context.Background(), sampleRequest)
	require.NoError(t, err)

	assert.Equal(t, "Grow carefully.", text)
	assert.Equal(t, "gpt-3.5-turbo", got["model"])
	assert.EqualValues(t, 1500, got["max_tokens"])
	assert.EqualValues(t, 0.7, got["temperature"])
	assert.EqualValues(t, 1, got["n"])

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "Analyse this cafe.", msgs[1].(map[string]any)["content"])
}

func TestOpenAIClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{"api error", http.StatusTooManyRequests, `{"error":{"type":"insufficient_quota","message":"quota exceeded"}}`, nil},
		{"bad status", http.StatusBadGateway, `{}`, nil},
		{"malformed body", http.StatusOK, `not json`, nil},
		{"no choices", http.StatusOK, `{"choices":[]}`, nil},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, ai.ErrEmptyCompletion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := ai.NewOpenAIClient("k", "m", srv.URL, time.Second).Complete(context.Background(), sampleRequest)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

// ─── Anthropic client ─────────────────────────────────────────────────────────

func TestAnthropicClient_ReturnsFirstTextBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, sampleRequest.System, body["system"])

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Keep six months of reserves."}]}`))
	}))
	defer srv.Close()

	text, err := ai.NewAnthropicClient("key", "claude", srv.URL, time.Second).Complete(context.Background(), sampleRequest)
	require.NoError(t, err)
	assert.Equal(t, "Keep six months of reserves.", text)
}

func TestAnthropicClient_NoTextIsEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	_, err := ai.NewAnthropicClient("key", "claude", srv.URL, time.Second).Complete(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, ai.ErrEmptyCompletion)
}

// ─── Instrument ───────────────────────────────────────────────────────────────

type recorder struct {
	provider string
	err      error
	n        int
}

func (r *recorder) ObserveCompletion(provider string, err error, _ time.Duration) {
	r.provider, r.err = provider, err
	r.n++
}

func TestInstrument_RecordsOutcome(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	c := ai.Instrument(&stubCompleter{err: boom}, "openai", rec)

	_, err := c.Complete(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, rec.n)
	assert.Equal(t, "openai", rec.provider)
	assert.ErrorIs(t, rec.err, boom)
}

func TestInstrument_NilRecorderReturnsSameCompleter(t *testing.T) {
	stub := &stubCompleter{}
	assert.Same(t, stub, ai.Instrument(stub, "openai", nil))
}
