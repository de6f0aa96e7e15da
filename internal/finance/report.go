package finance

import "encoding/json"

// ─── FULL REPORT ──────────────────────────────────────────────────────────────

// Report is the full baseline financial report. Several sections are keyed by
// the business type (e.g. "cafe_equipment"), so those sections are maps.
type Report struct {
	BusinessName string `json:"business_name"`
	BusinessType string `json:"business_type"`

	FinancialProjections    FinancialProjections    `json:"financial_projections"`
	FundingRequirements     FundingRequirements     `json:"funding_requirements"`
	CostStructure           CostStructure           `json:"cost_structure"`
	PricingStrategy         PricingStrategy         `json:"pricing_strategy"`
	CashFlowManagement      CashFlowManagement      `json:"cash_flow_management"`
	InvestmentOpportunities []InvestmentOpportunity `json:"investment_opportunities"`
	FinancialRisks          FinancialRisks          `json:"financial_risks"`
	BreakEvenAnalysis       BreakEvenAnalysis       `json:"break_even_analysis"`
	FinancialKPIs           []string                `json:"financial_kpis"`
	Recommendations         []string                `json:"recommendations"`

	// AIAnalysis is the completion-service narrative. Compute leaves it
	// empty; the narrative package fills it in.
	AIAnalysis string `json:"ai_analysis"`
}

type FinancialProjections struct {
	RevenueForecast       RevenueForecast       `json:"revenue_forecast"`
	ProfitMargins         map[string]string     `json:"profit_margins"`
	MonthlyRevenueTargets MonthlyRevenueTargets `json:"monthly_revenue_targets"`
}

type RevenueForecast struct {
	Year1 string `json:"year_1"`
	Year2 string `json:"year_2"`
	Year3 string `json:"year_3"`
}

type MonthlyRevenueTargets struct {
	Months1To6  string `json:"month_1_6"`
	Months7To12 string `json:"month_7_12"`
	Year2       string `json:"year_2"`
}

type FundingRequirements struct {
	// InitialInvestment holds the capital breakdown. Keys: "<type>_equipment",
	// "<type>_facility", "<type>_inventory", "marketing", "working_capital",
	// "total".
	InitialInvestment map[string]string `json:"initial_investment"`
	FundingSources    []FundingSource   `json:"funding_sources"`
}

type CostStructure struct {
	FixedCosts    FixedCosts        `json:"fixed_costs"`
	VariableCosts map[string]string `json:"variable_costs"`
}

type FixedCosts struct {
	Rent       string `json:"rent"`
	Utilities  string `json:"utilities"`
	Insurance  string `json:"insurance"`
	Licenses   string `json:"licenses"`
	TotalFixed string `json:"total_fixed"`
}

// PricingStrategy serialises as {"<type>_pricing": {...}, "pricing_factors": [...]}.
// Factors is omitted when nil, which the fallback report relies on.
type PricingStrategy struct {
	BusinessType string
	Tiers        map[string]string
	Factors      []string
}

// MarshalJSON emits the business-type-keyed tier map next to the factors.
func (p PricingStrategy) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		p.BusinessType + "_pricing": p.Tiers,
	}
	if p.Factors != nil {
		out["pricing_factors"] = p.Factors
	}
	return json.Marshal(out)
}

type CashFlowManagement struct {
	DailyCashFlow DailyCashFlow `json:"daily_cash_flow"`
	CashReserves  string        `json:"cash_reserves"`
	PaymentTerms  PaymentTerms  `json:"payment_terms"`
}

type DailyCashFlow struct {
	Inflow  string `json:"inflow"`
	Outflow string `json:"outflow"`
	Net     string `json:"net"`
}

type PaymentTerms struct {
	Suppliers string `json:"suppliers"`
	Customers string `json:"customers"`
	Utilities string `json:"utilities"`
}

type InvestmentOpportunity struct {
	Opportunity   string `json:"opportunity"`
	Investment    string `json:"investment"`
	ROI           string `json:"roi"`
	PaybackPeriod string `json:"payback_period"`
}

type FinancialRisks struct {
	MarketRisks          []string `json:"market_risks"`
	OperationalRisks     []string `json:"operational_risks"`
	MitigationStrategies []string `json:"mitigation_strategies"`
}

type BreakEvenAnalysis struct {
	MonthlyFixedCosts         string `json:"monthly_fixed_costs"`
	AverageContributionMargin string `json:"average_contribution_margin"`
	BreakEvenRevenue          string `json:"break_even_revenue"`
	BreakEvenTimeframe        string `json:"break_even_timeframe"`
}

// ─── FALLBACK REPORT ──────────────────────────────────────────────────────────

// FallbackReport is the reduced report served when the completion service
// fails. It is a distinct, smaller shape: there is no cost structure, cash
// flow, risk or break-even section.
type FallbackReport struct {
	BusinessName         string                      `json:"business_name"`
	BusinessType         string                      `json:"business_type"`
	FinancialProjections FallbackProjections         `json:"financial_projections"`
	FundingRequirements  FallbackFundingRequirements `json:"funding_requirements"`
	PricingStrategy      PricingStrategy             `json:"pricing_strategy"`
	Recommendations      []string                    `json:"recommendations"`

	// AIAnalysis is a fixed notice so consumers always receive a non-empty
	// narrative field.
	AIAnalysis string `json:"ai_analysis"`
}

type FallbackProjections struct {
	RevenueForecast FallbackRevenueForecast `json:"revenue_forecast"`
}

type FallbackRevenueForecast struct {
	Year1 string `json:"year_1"`
	Year2 string `json:"year_2"`
}

type FallbackFundingRequirements struct {
	InitialInvestment map[string]string `json:"initial_investment"`
}
