package finance

// ─── LEAVES ───────────────────────────────────────────────────────────────────

// Leaf names one monetary figure in a report. Each leaf is bound to exactly
// one fraction of the initial investment; no leaf is derived from another.
type Leaf string

const (
	LeafRevenueYear1 Leaf = "revenue_forecast.year_1"
	LeafRevenueYear2 Leaf = "revenue_forecast.year_2"
	LeafRevenueYear3 Leaf = "revenue_forecast.year_3"

	LeafMonthlyTargetMonths1To6  Leaf = "monthly_revenue_targets.month_1_6"
	LeafMonthlyTargetMonths7To12 Leaf = "monthly_revenue_targets.month_7_12"
	LeafMonthlyTargetYear2       Leaf = "monthly_revenue_targets.year_2"

	LeafFundingEquipment      Leaf = "initial_investment.equipment"
	LeafFundingFacility       Leaf = "initial_investment.facility"
	LeafFundingInventory      Leaf = "initial_investment.inventory"
	LeafFundingMarketing      Leaf = "initial_investment.marketing"
	LeafFundingWorkingCapital Leaf = "initial_investment.working_capital"
	LeafFundingTotal          Leaf = "initial_investment.total"

	LeafSourcePersonalSavings Leaf = "funding_sources.personal_savings"
	LeafSourceBankLoan        Leaf = "funding_sources.bank_loan"
	LeafSourceInvestor        Leaf = "funding_sources.investor_partner"

	LeafFixedRent      Leaf = "fixed_costs.rent"
	LeafFixedUtilities Leaf = "fixed_costs.utilities"
	LeafFixedInsurance Leaf = "fixed_costs.insurance"
	LeafFixedLicenses  Leaf = "fixed_costs.licenses"
	LeafFixedTotal     Leaf = "fixed_costs.total_fixed"

	LeafPriceBasic      Leaf = "pricing.basic_service"
	LeafPricePremium    Leaf = "pricing.premium_service"
	LeafPriceConsulting Leaf = "pricing.consulting"

	LeafDailyInflow  Leaf = "daily_cash_flow.inflow"
	LeafDailyOutflow Leaf = "daily_cash_flow.outflow"
	LeafDailyNet     Leaf = "daily_cash_flow.net"

	LeafOpportunityEquipment  Leaf = "investment_opportunities.equipment_upgrade"
	LeafOpportunityTechnology Leaf = "investment_opportunities.technology_system"
	LeafOpportunityMarketing  Leaf = "investment_opportunities.marketing_campaign"

	LeafBreakEvenFixedCosts Leaf = "break_even_analysis.monthly_fixed_costs"
	LeafBreakEvenRevenue    Leaf = "break_even_analysis.break_even_revenue"

	// Fallback report leaves. Its revenue curve sits below the full
	// report's.
	LeafFallbackRevenueYear1 Leaf = "fallback.revenue_forecast.year_1"
	LeafFallbackRevenueYear2 Leaf = "fallback.revenue_forecast.year_2"
	LeafFallbackFundingTotal Leaf = "fallback.initial_investment.total"
)

// Placeholder is the value of every monetary leaf when no initial investment
// was supplied.
const Placeholder = "To be determined"

// unitMonthly is appended to figures quoted per month.
const unitMonthly = "/month"

// fraction is a leaf's multiplier on the initial investment plus an optional
// unit suffix rendered after the currency amount.
type fraction struct {
	of   float64
	unit string
}

// fractions is the full table of multipliers. Adding a figure to a report
// means adding a Leaf here, never computing it from a sibling.
var fractions = map[Leaf]fraction{
	LeafRevenueYear1: {of: 0.8},
	LeafRevenueYear2: {of: 1.2},
	LeafRevenueYear3: {of: 1.8},

	LeafMonthlyTargetMonths1To6:  {of: 0.05},
	LeafMonthlyTargetMonths7To12: {of: 0.08},
	LeafMonthlyTargetYear2:       {of: 0.1},

	LeafFundingEquipment:      {of: 0.4},
	LeafFundingFacility:       {of: 0.25},
	LeafFundingInventory:      {of: 0.1},
	LeafFundingMarketing:      {of: 0.15},
	LeafFundingWorkingCapital: {of: 0.1},
	LeafFundingTotal:          {of: 1.0},

	LeafSourcePersonalSavings: {of: 0.5},
	LeafSourceBankLoan:        {of: 0.4},
	LeafSourceInvestor:        {of: 0.1},

	LeafFixedRent:      {of: 0.02, unit: unitMonthly},
	LeafFixedUtilities: {of: 0.005, unit: unitMonthly},
	LeafFixedInsurance: {of: 0.002, unit: unitMonthly},
	LeafFixedLicenses:  {of: 0.001, unit: unitMonthly},
	LeafFixedTotal:     {of: 0.028, unit: unitMonthly},

	LeafPriceBasic:      {of: 0.001},
	LeafPricePremium:    {of: 0.002},
	LeafPriceConsulting: {of: 0.005},

	LeafDailyInflow:  {of: 0.003},
	LeafDailyOutflow: {of: 0.002},
	LeafDailyNet:     {of: 0.001},

	LeafOpportunityEquipment:  {of: 0.15},
	LeafOpportunityTechnology: {of: 0.075},
	LeafOpportunityMarketing:  {of: 0.1},

	LeafBreakEvenFixedCosts: {of: 0.028},
	LeafBreakEvenRevenue:    {of: 0.14, unit: unitMonthly},

	LeafFallbackRevenueYear1: {of: 0.5},
	LeafFallbackRevenueYear2: {of: 0.75},
	LeafFallbackFundingTotal: {of: 1.0},
}

// Fraction returns the multiplier bound to leaf, and false for an unknown leaf.
func Fraction(leaf Leaf) (float64, bool) {
	f, ok := fractions[leaf]
	return f.of, ok
}

// ─── FIXED RATIOS ─────────────────────────────────────────────────────────────

// FundingSource is one row of the fixed 50/40/10 funding split.
type FundingSource struct {
	Source     string `json:"source"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage"`
}

type fundingShare struct {
	source  string
	leaf    Leaf
	percent int
}

// fundingSplit pairs each funding source with its leaf and share. The shares
// sum to 100.
var fundingSplit = []fundingShare{
	{"Personal savings", LeafSourcePersonalSavings, 50},
	{"Bank loan", LeafSourceBankLoan, 40},
	{"Investor/Partner", LeafSourceInvestor, 10},
}

type costShare struct {
	suffix  string
	percent int
}

// variableCostShares are percentages of revenue, keyed by a suffix that is
// prefixed with the business type in the report. total_variable is 80.
var variableCostShares = []costShare{
	{"materials", 25},
	{"labor", 30},
	{"marketing", 10},
	{"overhead", 15},
}
