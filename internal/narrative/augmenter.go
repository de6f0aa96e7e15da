// Package narrative asks the completion provider for a written financial
// analysis and merges it into the baseline report. A failed completion never
// reaches the caller as an error: the result degrades to the reduced fallback
// report and carries the cause alongside it.
package narrative

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nyashahama/financial-agent-backend/internal/ai"
	"github.com/nyashahama/financial-agent-backend/internal/finance"
	"github.com/nyashahama/financial-agent-backend/internal/metrics"
)

// Sampling bounds for the analysis narrative.
const (
	MaxTokens   = 1500
	Temperature = 0.7
)

// Analysis is the outcome of one augmentation. Exactly one of Report and
// Fallback is set.
type Analysis struct {
	// Report is the full baseline report with AIAnalysis filled in.
	Report *finance.Report

	// Fallback is the reduced report served when the completion failed.
	Fallback *finance.FallbackReport

	// Cause is the completion error behind a fallback; nil otherwise.
	Cause error
}

// Degraded reports whether the analysis is the fallback shape.
func (a Analysis) Degraded() bool { return a.Fallback != nil }

// Outcome is the metrics label for the analysis.
func (a Analysis) Outcome() string {
	if a.Degraded() {
		return metrics.OutcomeDegraded
	}
	return metrics.OutcomeNarrated
}

// MarshalJSON encodes whichever report the analysis holds.
func (a Analysis) MarshalJSON() ([]byte, error) {
	if a.Degraded() {
		return json.Marshal(a.Fallback)
	}
	return json.Marshal(a.Report)
}

// Recorder counts analyses by outcome. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveAnalysis(outcome string)
}

// Augmenter owns the completion capability used for analyses. It holds no
// per-request state and is safe for concurrent use.
type Augmenter struct {
	completer ai.Completer
	logger    *slog.Logger
	rec       Recorder
}

// New returns an Augmenter. rec may be nil.
func New(c ai.Completer, logger *slog.Logger, rec Recorder) *Augmenter {
	return &Augmenter{completer: c, logger: logger, rec: rec}
}

// Analyze computes the baseline for profile and augments it.
func (a *Augmenter) Analyze(ctx context.Context, profile finance.BusinessProfile, plan finance.StrategicPlan) Analysis {
	return a.Augment(ctx, profile, plan, finance.Compute(profile))
}

// Augment makes exactly one completion call. On success the returned text is
// stored verbatim in baseline.AIAnalysis and nothing else changes. On any
// failure the result is the fallback report for profile.
func (a *Augmenter) Augment(ctx context.Context, profile finance.BusinessProfile, plan finance.StrategicPlan, baseline finance.Report) Analysis {
	text, err := a.completer.Complete(ctx, ai.Request{
		System:      systemPrompt(profile),
		Prompt:      userPrompt(profile, plan),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})

	var result Analysis
	if err != nil {
		a.logger.Warn("narrative: completion failed, serving fallback report",
			"business_type", profile.BusinessType,
			"industry", profile.Industry,
			"error", err,
		)
		fb := finance.Fallback(profile)
		result = Analysis{Fallback: &fb, Cause: err}
	} else {
		baseline.AIAnalysis = text
		result = Analysis{Report: &baseline}
	}

	if a.rec != nil {
		a.rec.ObserveAnalysis(result.Outcome())
	}
	return result
}
