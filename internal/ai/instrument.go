package ai

import (
	"context"
	"time"
)

// Recorder receives one observation per completion call. *metrics.Metrics
// satisfies it.
type Recorder interface {
	ObserveCompletion(provider string, err error, elapsed time.Duration)
}

type instrumented struct {
	next     Completer
	provider string
	rec      Recorder
}

// Instrument wraps c so every call is reported to rec under the provider
// label. A nil rec returns c unchanged.
func Instrument(c Completer, provider string, rec Recorder) Completer {
	if rec == nil {
		return c
	}
	return &instrumented{next: c, provider: provider, rec: rec}
}

func (i *instrumented) Complete(ctx context.Context, r Request) (string, error) {
	start := time.Now()
	text, err := i.next.Complete(ctx, r)
	i.rec.ObserveCompletion(i.provider, err, time.Since(start))
	return text, err
}
