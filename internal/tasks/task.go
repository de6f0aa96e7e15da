// Package tasks routes automated-task requests to a report generator and
// normalises every outcome into one envelope. Generator failures become
// status "failed" results; Dispatch itself never returns an error.
package tasks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Task types with a dedicated generator. Anything else is acknowledged by
// the generic generator.
const (
	TypeFinancialReview  = "financial_review"
	TypeBudgetAdjustment = "budget_adjustment"
)

// Envelope statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DefaultBusinessID stands in for a missing business_id.
const DefaultBusinessID = "temp_id"

// Descriptor is an inbound automated-task request.
type Descriptor struct {
	TaskType     string         `json:"task_type"`
	BusinessName string         `json:"business_name"`
	BusinessID   string         `json:"business_id"`
	Parameters   map[string]any `json:"parameters"`
}

// ParseDescriptor decodes a raw request body. Field types are not enforced:
// non-string scalars in the text fields are stringified and a parameters
// value that is not an object is ignored. Missing fields take their
// defaults: business_id becomes DefaultBusinessID and parameters an empty
// map. Only a body that is not a JSON object is an error.
func ParseDescriptor(raw []byte) (Descriptor, error) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return Descriptor{}, fmt.Errorf("tasks: parse descriptor: %w", err)
	}
	if fields == nil {
		return Descriptor{}, errors.New("tasks: parse descriptor: body is not a JSON object")
	}

	d := Descriptor{
		TaskType:     text(fields["task_type"]),
		BusinessName: text(fields["business_name"]),
		BusinessID:   text(fields["business_id"]),
	}
	d.Parameters, _ = fields["parameters"].(map[string]any)

	if d.BusinessID == "" {
		d.BusinessID = DefaultBusinessID
	}
	if d.Parameters == nil {
		d.Parameters = map[string]any{}
	}
	return d, nil
}

// text renders a decoded JSON value as a string. Objects and arrays are
// re-encoded compactly.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// ─── RESULT ENVELOPE ──────────────────────────────────────────────────────────

// Result is the uniform task envelope. Status and TaskType are always
// present; at most one payload pointer is set and its fields are flattened
// into the envelope on the wire.
type Result struct {
	Status       string `json:"status"`
	TaskType     string `json:"task_type"`
	Error        string `json:"error,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
	BusinessID   string `json:"business_id,omitempty"`
	ExecutionID  string `json:"execution_id,omitempty"`

	*Review
	*BudgetAdjustment
	*Acknowledgement
}

// Failed builds a failed envelope for taskType.
func Failed(taskType string, err error) Result {
	return Result{Status: StatusFailed, TaskType: taskType, Error: err.Error()}
}

// Review is the financial-review payload.
type Review struct {
	ReviewDate               string         `json:"review_date"`
	FinancialAnalysis        string         `json:"financial_analysis"`
	FinancialData            FinancialData  `json:"financial_data"`
	KeyMetrics               KeyMetrics     `json:"key_metrics"`
	FinancialRecommendations []string       `json:"financial_recommendations"`
	RiskAssessment           RiskAssessment `json:"risk_assessment"`
}

// FinancialData holds illustrative figures in THB and percent. They are
// fixed examples, not derived from the request.
type FinancialData struct {
	Revenue      int     `json:"revenue"`
	Expenses     int     `json:"expenses"`
	ProfitMargin float64 `json:"profit_margin"`
	CashFlow     int     `json:"cash_flow"`
	GrowthRate   float64 `json:"growth_rate"`
}

type KeyMetrics struct {
	RevenueGrowth    string `json:"revenue_growth"`
	ProfitMargin     string `json:"profit_margin"`
	CashFlowPositive bool   `json:"cash_flow_positive"`
	ExpenseRatio     string `json:"expense_ratio"`
}

type RiskAssessment struct {
	FinancialRisks       []string `json:"financial_risks"`
	MitigationStrategies []string `json:"mitigation_strategies"`
}

// BudgetAdjustment is the budget-adjustment payload.
type BudgetAdjustment struct {
	AdjustmentDate          string             `json:"adjustment_date"`
	BudgetAnalysis          string             `json:"budget_analysis"`
	BudgetAdjustments       Adjustments        `json:"budget_adjustments"`
	ResourceAllocation      ResourceAllocation `json:"resource_allocation"`
	InvestmentOpportunities []string           `json:"investment_opportunities"`
	CostOptimization        []string           `json:"cost_optimization"`
}

// Adjustments are signed percentage deltas per budget line.
type Adjustments struct {
	MarketingBudget      string `json:"marketing_budget"`
	OperationalCosts     string `json:"operational_costs"`
	TechnologyInvestment string `json:"technology_investment"`
	StaffTraining        string `json:"staff_training"`
}

type ResourceAllocation struct {
	HighPriority   []string `json:"high_priority"`
	MediumPriority []string `json:"medium_priority"`
	LowPriority    []string `json:"low_priority"`
}

// Acknowledgement is the generic payload for unrecognised task types.
type Acknowledgement struct {
	Message           string   `json:"message"`
	FinancialInsights string   `json:"financial_insights"`
	Recommendations   []string `json:"recommendations"`
}
