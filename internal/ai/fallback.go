package ai

import (
	"context"
	"fmt"
	"log/slog"
)

// fallbackCompleter wraps two Completer implementations. It calls the primary
// first; if that returns an error it logs the failure and tries the secondary
// once. The choice of which provider is which is made in main.go.
type fallbackCompleter struct {
	primary   Completer
	secondary Completer
	logger    *slog.Logger
}

// NewFallbackCompleter returns a Completer that calls primary and, on failure,
// falls back to secondary. Either argument may be nil: if primary is nil it
// goes straight to secondary; if secondary is nil and primary fails, the
// primary error is returned wrapped. Both nil behaves like Unavailable.
func NewFallbackCompleter(primary, secondary Completer, logger *slog.Logger) Completer {
	return &fallbackCompleter{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Complete tries the primary Completer, then the secondary if one is set.
func (f *fallbackCompleter) Complete(ctx context.Context, r Request) (string, error) {
	if f.primary != nil {
		text, err := f.primary.Complete(ctx, r)
		if err == nil {
			return text, nil
		}
		if f.secondary == nil {
			return "", fmt.Errorf("ai: primary failed and no secondary configured: %w", err)
		}
		f.logger.Warn("ai: primary completer failed, trying secondary",
			"error", err,
			"max_tokens", r.MaxTokens,
		)
	}

	if f.secondary == nil {
		return "", ErrNoProvider
	}
	return f.secondary.Complete(ctx, r)
}
