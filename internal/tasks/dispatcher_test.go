package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/financial-agent-backend/internal/ai"
	"github.com/nyashahama/financial-agent-backend/internal/tasks"
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

type taskRecorder struct{ seen [][2]string }

func (r *taskRecorder) ObserveTask(taskType, status string) {
	r.seen = append(r.seen, [2]string{taskType, status})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 123456000, time.Local) }

func newDispatcher(c ai.Completer, rec tasks.Recorder) *tasks.Dispatcher {
	return tasks.NewDispatcher(c, discardLogger(), rec, tasks.WithClock(fixedNow))
}

// toMap round-trips a Result through JSON the way the HTTP layer sends it.
func toMap(t *testing.T, r tasks.Result) map[string]any {
	t.Helper()
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

// ─── ROUTING ──────────────────────────────────────────────────────────────────

func TestDispatch_FinancialReview(t *testing.T) {
	stub := &stubCompleter{text: "Margins are healthy."}
	rec := &taskRecorder{}
	res := newDispatcher(stub, rec).Dispatch(context.Background(), tasks.Descriptor{
		TaskType:     tasks.TypeFinancialReview,
		BusinessName: "Bean There",
		BusinessID:   "biz-42",
	})

	m := toMap(t, res)
	assert.Equal(t, "completed", m["status"])
	assert.Equal(t, "financial_review", m["task_type"])
	assert.Equal(t, "Bean There", m["business_name"])
	assert.Equal(t, "biz-42", m["business_id"])
	assert.Equal(t, "Margins are healthy.", m["financial_analysis"])
	assert.Equal(t, "2025-03-01T09:30:00.123456", m["review_date"])

	data := m["financial_data"].(map[string]any)
	assert.Equal(t, 20.0, data["profit_margin"])
	assert.Equal(t, 850000.0, data["revenue"])
	assert.Equal(t, 680000.0, data["expenses"])
	assert.NotContains(t, m, "budget_adjustments")
	assert.NotContains(t, m, "error")

	_, err := uuid.Parse(m["execution_id"].(string))
	assert.NoError(t, err)

	require.Len(t, stub.got, 1)
	assert.Equal(t, tasks.MaxTokens, stub.got[0].MaxTokens)
	assert.Contains(t, stub.got[0].Prompt, "comprehensive financial review for Bean There")
	assert.Equal(t, [][2]string{{"financial_review", "completed"}}, rec.seen)
}

func TestDispatch_BudgetAdjustment(t *testing.T) {
	stub := &stubCompleter{text: "Shift spend to marketing."}
	res := newDispatcher(stub, nil).Dispatch(context.Background(), tasks.Descriptor{
		TaskType:     tasks.TypeBudgetAdjustment,
		BusinessName: "Bean There",
		Parameters:   map[string]any{"quarter": "Q2", "budget": 50000},
	})

	m := toMap(t, res)
	assert.Equal(t, "completed", m["status"])
	assert.Equal(t, "budget_adjustment", m["task_type"])
	assert.Equal(t, "temp_id", m["business_id"])
	assert.Equal(t, "2025-03-01T09:30:00.123456", m["adjustment_date"])

	adj := m["budget_adjustments"].(map[string]any)
	assert.Equal(t, "+20%", adj["marketing_budget"])
	assert.Equal(t, "-5%", adj["operational_costs"])

	require.Len(t, stub.got, 1)
	assert.Contains(t, stub.got[0].Prompt, "- budget: 50000\n- quarter: Q2\n")
}

func TestDispatch_UnknownTypeIsAcknowledged(t *testing.T) {
	stub := &stubCompleter{}
	rec := &taskRecorder{}
	res := newDispatcher(stub, rec).Dispatch(context.Background(), tasks.Descriptor{
		TaskType:     "quarterly_forecast",
		BusinessName: "Bean There",
	})

	m := toMap(t, res)
	assert.Equal(t, "completed", m["status"])
	assert.Equal(t, "quarterly_forecast", m["task_type"])
	assert.Equal(t, "Financial analysis completed for quarterly_forecast", m["message"])
	assert.Equal(t, "Financial insights for Bean There", m["financial_insights"])
	assert.Equal(t, []any{
		"Monitor cash flow regularly",
		"Review expense patterns",
		"Optimize pricing strategy",
	}, m["recommendations"])

	assert.Empty(t, stub.got, "generic path never calls the completion service")
	assert.Equal(t, [][2]string{{"generic", "completed"}}, rec.seen)
}

func TestDispatch_MissingTaskTypeUsesGeneric(t *testing.T) {
	res := newDispatcher(&stubCompleter{}, nil).Dispatch(context.Background(), tasks.Descriptor{})

	m := toMap(t, res)
	assert.Equal(t, "completed", m["status"])
	assert.Contains(t, m, "task_type")
	assert.Equal(t, "", m["task_type"])
	assert.Len(t, m["recommendations"], 3)
}

// ─── FAILURE ──────────────────────────────────────────────────────────────────

func TestDispatch_GeneratorFailureBecomesFailedEnvelope(t *testing.T) {
	for _, taskType := range []string{tasks.TypeFinancialReview, tasks.TypeBudgetAdjustment} {
		t.Run(taskType, func(t *testing.T) {
			rec := &taskRecorder{}
			stub := &stubCompleter{err: errors.New("upstream timeout")}
			res := newDispatcher(stub, rec).Dispatch(context.Background(), tasks.Descriptor{TaskType: taskType})

			m := toMap(t, res)
			assert.Equal(t, "failed", m["status"])
			assert.Equal(t, taskType, m["task_type"])
			assert.Equal(t, "upstream timeout", m["error"])
			assert.NotContains(t, m, "financial_data")
			assert.NotContains(t, m, "budget_adjustments")
			assert.Equal(t, [][2]string{{taskType, "failed"}}, rec.seen)
		})
	}
}

type failingGenerator struct{}

func (failingGenerator) TaskType() string { return "custom" }
func (failingGenerator) Generate(context.Context, tasks.Descriptor) (tasks.Result, error) {
	return tasks.Result{}, errors.New("custom failure")
}

func TestWithGenerator_RegistersCustomType(t *testing.T) {
	d := tasks.NewDispatcher(&stubCompleter{}, discardLogger(), nil, tasks.WithGenerator(failingGenerator{}))
	res := d.Dispatch(context.Background(), tasks.Descriptor{TaskType: "custom"})

	assert.Equal(t, tasks.StatusFailed, res.Status)
	assert.Equal(t, "custom", res.TaskType)
	assert.Equal(t, "custom failure", res.Error)
}

// ─── PARSING ──────────────────────────────────────────────────────────────────

func TestParseDescriptor(t *testing.T) {
	d, err := tasks.ParseDescriptor([]byte(`{"task_type":"financial_review","business_name":"Bean There"}`))
	require.NoError(t, err)
	assert.Equal(t, "financial_review", d.TaskType)
	assert.Equal(t, tasks.DefaultBusinessID, d.BusinessID)
	assert.NotNil(t, d.Parameters)

	d, err = tasks.ParseDescriptor([]byte(`{"business_id":"b1","parameters":{"n":3}}`))
	require.NoError(t, err)
	assert.Equal(t, "", d.TaskType)
	assert.Equal(t, "b1", d.BusinessID)
	assert.Equal(t, json.Number("3"), d.Parameters["n"])

	_, err = tasks.ParseDescriptor([]byte(`{not json`))
	assert.Error(t, err)

	_, err = tasks.ParseDescriptor([]byte(`null`))
	assert.Error(t, err)

	_, err = tasks.ParseDescriptor([]byte(`["financial_review"]`))
	assert.Error(t, err)
}

func TestParseDescriptor_LooseFieldTypes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want tasks.Descriptor
	}{
		{
			name: "numeric business_id",
			body: `{"task_type":"weekly","business_id":42}`,
			want: tasks.Descriptor{TaskType: "weekly", BusinessID: "42", Parameters: map[string]any{}},
		},
		{
			name: "parameters as array",
			body: `{"task_type":"financial_review","business_name":"Bean There","parameters":[1,2]}`,
			want: tasks.Descriptor{TaskType: "financial_review", BusinessName: "Bean There", BusinessID: tasks.DefaultBusinessID, Parameters: map[string]any{}},
		},
		{
			name: "numeric task_type",
			body: `{"task_type":7,"business_id":true}`,
			want: tasks.Descriptor{TaskType: "7", BusinessID: "true", Parameters: map[string]any{}},
		},
		{
			name: "null business_id",
			body: `{"task_type":"budget_adjustment","business_id":null}`,
			want: tasks.Descriptor{TaskType: "budget_adjustment", BusinessID: tasks.DefaultBusinessID, Parameters: map[string]any{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tasks.ParseDescriptor([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}
