// Package ai defines the text-completion capability the narrative and task
// packages depend on, and provides OpenAI-compatible, Anthropic and Gemini
// implementations plus a primary/secondary failover wrapper.
package ai

import (
	"context"
	"errors"
)

// Request is one completion call: a system instruction, a user prompt, and
// the sampling bounds. Exactly one completion is requested.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer is the interface the narrative augmenter and task generators use.
// Tests inject a stub that returns canned text.
type Completer interface {
	// Complete returns the generated text. A non-nil error covers timeouts,
	// API errors and malformed responses alike; callers treat every error
	// the same way and never retry.
	//
	// Implementations must be safe to call concurrently.
	Complete(ctx context.Context, req Request) (string, error)
}

var (
	// ErrEmptyCompletion is returned when the provider answered but produced
	// no text.
	ErrEmptyCompletion = errors.New("ai: empty completion")

	// ErrNoProvider is returned by the Unavailable completer.
	ErrNoProvider = errors.New("ai: no completion provider configured")
)

// unavailable always fails. It keeps the service answering (with fallback
// content) when no provider credentials are configured.
type unavailable struct{}

// Unavailable returns a Completer whose every call fails with ErrNoProvider.
func Unavailable() Completer { return unavailable{} }

func (unavailable) Complete(context.Context, Request) (string, error) {
	return "", ErrNoProvider
}
