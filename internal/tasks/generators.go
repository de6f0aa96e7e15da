package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/nyashahama/financial-agent-backend/internal/ai"
)

// Sampling bounds shared by the generators that call the completion service.
const (
	MaxTokens   = 1000
	Temperature = 0.7
)

// TimeLayout is the local ISO-8601 form, with microseconds, used for every
// timestamp the service emits.
const TimeLayout = "2006-01-02T15:04:05.000000"

// Generator produces the payload for one task type. A returned error is
// converted by the Dispatcher into a failed envelope.
type Generator interface {
	TaskType() string
	Generate(ctx context.Context, d Descriptor) (Result, error)
}

// ─── FINANCIAL REVIEW ─────────────────────────────────────────────────────────

type reviewGenerator struct {
	completer ai.Completer
	now       func() time.Time
}

func (reviewGenerator) TaskType() string { return TypeFinancialReview }

func (g reviewGenerator) Generate(ctx context.Context, d Descriptor) (Result, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Perform a comprehensive financial review for %s:\n\n", d.BusinessName)
	sb.WriteString("Analysis areas:\n")
	for _, area := range []string{
		"Revenue performance and trends",
		"Cost structure and efficiency",
		"Profitability analysis",
		"Cash flow management",
		"Financial ratios and metrics",
		"Budget vs actual performance",
	} {
		fmt.Fprintf(&sb, "- %s\n", area)
	}
	writeParameters(&sb, d.Parameters)
	sb.WriteString("\nProvide actionable financial insights and recommendations for improvement.\n")

	analysis, err := g.completer.Complete(ctx, ai.Request{
		System:      "You are an expert financial analyst providing insights for business financial health and growth.",
		Prompt:      sb.String(),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Status:   StatusCompleted,
		TaskType: TypeFinancialReview,
		Review: &Review{
			ReviewDate:        g.now().Format(TimeLayout),
			FinancialAnalysis: analysis,
			FinancialData: FinancialData{
				Revenue:      850000,
				Expenses:     680000,
				ProfitMargin: 20.0,
				CashFlow:     120000,
				GrowthRate:   15.0,
			},
			KeyMetrics: KeyMetrics{
				RevenueGrowth:    "15%",
				ProfitMargin:     "20%",
				CashFlowPositive: true,
				ExpenseRatio:     "80%",
			},
			FinancialRecommendations: []string{
				"Optimize pricing strategy for better margins",
				"Implement cost control measures",
				"Improve cash flow management",
				"Explore financing options for growth",
			},
			RiskAssessment: RiskAssessment{
				FinancialRisks:       []string{"Cash flow volatility", "Market competition"},
				MitigationStrategies: []string{"Build cash reserves", "Diversify revenue streams"},
			},
		},
	}, nil
}

// ─── BUDGET ADJUSTMENT ────────────────────────────────────────────────────────

type budgetGenerator struct {
	completer ai.Completer
	now       func() time.Time
}

func (budgetGenerator) TaskType() string { return TypeBudgetAdjustment }

func (g budgetGenerator) Generate(ctx context.Context, d Descriptor) (Result, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Perform budget adjustment analysis for %s:\n\n", d.BusinessName)
	sb.WriteString("Current situation:\n- Performance vs budget\n- Market conditions\n- Growth opportunities\n- Cost pressures\n")
	writeParameters(&sb, d.Parameters)
	sb.WriteString("\nProvide:\n- Budget adjustment recommendations\n- Resource allocation priorities\n- Investment opportunities\n- Cost optimization strategies\n")

	adjustment, err := g.completer.Complete(ctx, ai.Request{
		System:      "You are a financial consultant providing budget optimization and resource allocation advice.",
		Prompt:      sb.String(),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Status:   StatusCompleted,
		TaskType: TypeBudgetAdjustment,
		BudgetAdjustment: &BudgetAdjustment{
			AdjustmentDate: g.now().Format(TimeLayout),
			BudgetAnalysis: adjustment,
			BudgetAdjustments: Adjustments{
				MarketingBudget:      "+20%",
				OperationalCosts:     "-5%",
				TechnologyInvestment: "+30%",
				StaffTraining:        "+15%",
			},
			ResourceAllocation: ResourceAllocation{
				HighPriority:   []string{"Marketing", "Technology"},
				MediumPriority: []string{"Staff training", "Operations"},
				LowPriority:    []string{"Administrative costs"},
			},
			InvestmentOpportunities: []string{
				"Digital marketing automation",
				"Customer relationship management system",
				"Process optimization tools",
			},
			CostOptimization: []string{
				"Negotiate supplier contracts",
				"Implement energy efficiency measures",
				"Optimize inventory management",
			},
		},
	}, nil
}

// ─── GENERIC ──────────────────────────────────────────────────────────────────

// genericGenerator acknowledges any task type without calling the
// completion service. It cannot fail.
type genericGenerator struct{}

// GenericTaskType labels the generic generator in logs and metrics.
const GenericTaskType = "generic"

func (genericGenerator) TaskType() string { return GenericTaskType }

func (genericGenerator) Generate(_ context.Context, d Descriptor) (Result, error) {
	return Result{
		Status:   StatusCompleted,
		TaskType: d.TaskType,
		Acknowledgement: &Acknowledgement{
			Message:           fmt.Sprintf("Financial analysis completed for %s", d.TaskType),
			FinancialInsights: fmt.Sprintf("Financial insights for %s", d.BusinessName),
			Recommendations: []string{
				"Monitor cash flow regularly",
				"Review expense patterns",
				"Optimize pricing strategy",
			},
		},
	}, nil
}

// ─── HELPERS ──────────────────────────────────────────────────────────────────

// writeParameters appends the task parameters as sorted "key: value" lines.
// Nothing is written when there are none.
func writeParameters(sb *strings.Builder, params map[string]any) {
	if len(params) == 0 {
		return
	}
	keys := lo.Keys(params)
	sort.Strings(keys)

	sb.WriteString("\nTask parameters:\n")
	for _, k := range keys {
		fmt.Fprintf(sb, "- %s: %v\n", k, params[k])
	}
}
