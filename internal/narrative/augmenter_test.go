package narrative_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/financial-agent-backend/internal/ai"
	"github.com/nyashahama/financial-agent-backend/internal/finance"
	"github.com/nyashahama/financial-agent-backend/internal/metrics"
	"github.com/nyashahama/financial-agent-backend/internal/narrative"
)

type stubCompleter struct {
	text string
	err  error
	got  []ai.Request
}

func (s *stubCompleter) Complete(_ context.Context, r ai.Request) (string, error) {
	s.got = append(s.got, r)
	return s.text, s.err
}

type countingRecorder struct{ outcomes []string }

func (c *countingRecorder) ObserveAnalysis(outcome string) { c.outcomes = append(c.outcomes, outcome) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func cafe() finance.BusinessProfile {
	return finance.BusinessProfile{
		BusinessName:      "Bean There",
		BusinessType:      "cafe",
		Location:          "Bangkok",
		Description:       "Specialty coffee bar",
		TargetMarket:      "Office workers",
		Industry:          "food",
		BusinessModel:     "B2C",
		InitialInvestment: ptr(100000.0),
		TeamSize:          ptr(4),
		GrowthGoals:       []string{"Open a second branch", "Launch delivery"},
	}
}

func plan() finance.StrategicPlan {
	return finance.StrategicPlan{GrowthStrategy: finance.GrowthStrategy{
		ShortTermGoals: []string{"Hire a head barista"},
	}}
}

// ─── SUCCESS ──────────────────────────────────────────────────────────────────

func TestAugment_Success_AttachesTextVerbatim(t *testing.T) {
	stub := &stubCompleter{text: "  Keep overheads lean.\n"}
	rec := &countingRecorder{}
	a := narrative.New(stub, discardLogger(), rec)

	baseline := finance.Compute(cafe())
	got := a.Augment(context.Background(), cafe(), plan(), baseline)

	require.False(t, got.Degraded())
	require.NotNil(t, got.Report)
	assert.Nil(t, got.Fallback)
	assert.NoError(t, got.Cause)
	assert.Equal(t, "  Keep overheads lean.\n", got.Report.AIAnalysis)

	// Every other leaf is untouched.
	want := baseline
	want.AIAnalysis = got.Report.AIAnalysis
	assert.Equal(t, want, *got.Report)
	assert.Equal(t, []string{metrics.OutcomeNarrated}, rec.outcomes)
}

func TestAugment_RequestsOneBoundedCompletion(t *testing.T) {
	stub := &stubCompleter{text: "ok"}
	narrative.New(stub, discardLogger(), nil).Analyze(context.Background(), cafe(), plan())

	require.Len(t, stub.got, 1)
	req := stub.got[0]
	assert.Equal(t, narrative.MaxTokens, req.MaxTokens)
	assert.InDelta(t, narrative.Temperature, req.Temperature, 1e-9)

	assert.Contains(t, req.System, "specializing in cafe business finance in the food industry")

	for _, want := range []string{
		"- Name: Bean There",
		"- Location: Bangkok",
		"- Target Market: Office workers",
		"- Business Model: B2C",
		"- Initial Investment: $100,000",
		"- Team Size: 4 employees",
		"- Growth Goals: Open a second branch, Launch delivery",
		"Strategic Plan Context: [Hire a head barista]",
		"8. Break-even Analysis:",
	} {
		assert.Contains(t, req.Prompt, want)
	}
}

func TestAugment_PromptWithoutOptionalFields(t *testing.T) {
	stub := &stubCompleter{text: "ok"}
	p := finance.BusinessProfile{BusinessType: "salon", Industry: "beauty"}

	narrative.New(stub, discardLogger(), nil).Analyze(context.Background(), p, finance.StrategicPlan{})

	require.Len(t, stub.got, 1)
	assert.Contains(t, stub.got[0].Prompt, "- Initial Investment: Not specified")
	assert.Contains(t, stub.got[0].Prompt, "- Team Size: Not specified")
	assert.Contains(t, stub.got[0].Prompt, "Strategic Plan Context: []")
}

// ─── FAILURE ──────────────────────────────────────────────────────────────────

func TestAugment_Failure_ServesFallbackShape(t *testing.T) {
	boom := errors.New("rate limited")
	rec := &countingRecorder{}
	a := narrative.New(&stubCompleter{err: boom}, discardLogger(), rec)

	got := a.Analyze(context.Background(), cafe(), plan())

	require.True(t, got.Degraded())
	assert.Nil(t, got.Report)
	assert.ErrorIs(t, got.Cause, boom)
	assert.Equal(t, "50,000 THB", got.Fallback.FinancialProjections.RevenueForecast.Year1)
	assert.Equal(t, "75,000 THB", got.Fallback.FinancialProjections.RevenueForecast.Year2)
	assert.Equal(t, []string{metrics.OutcomeDegraded}, rec.outcomes)

	raw, err := json.Marshal(got)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.NotContains(t, m, "cost_structure")
	assert.NotContains(t, m, "cash_flow_management")
	assert.Equal(t, finance.FallbackNotice, m["ai_analysis"])
}

func TestAugment_FailureWithoutInvestment_Placeholders(t *testing.T) {
	p := cafe()
	p.InitialInvestment = nil

	got := narrative.New(ai.Unavailable(), discardLogger(), nil).Analyze(context.Background(), p, plan())

	require.True(t, got.Degraded())
	assert.ErrorIs(t, got.Cause, ai.ErrNoProvider)
	assert.Equal(t, finance.Placeholder, got.Fallback.FinancialProjections.RevenueForecast.Year1)
	assert.Equal(t, finance.Placeholder, got.Fallback.FundingRequirements.InitialInvestment["total"])
}

func TestAnalysis_MarshalsFullReport(t *testing.T) {
	got := narrative.New(&stubCompleter{text: "narrative"}, discardLogger(), nil).
		Analyze(context.Background(), cafe(), plan())

	raw, err := json.Marshal(got)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "cost_structure")
	assert.Equal(t, "narrative", m["ai_analysis"])
}
