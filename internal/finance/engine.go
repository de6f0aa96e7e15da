package finance

import (
	"fmt"

	"github.com/samber/lo"
)

// ─── STATIC CONTENT ───────────────────────────────────────────────────────────

// Templates take the business type (or industry, where noted) as their only
// verb.
var (
	marketRiskTemplates = []string{
		"Economic downturn affecting %s demand",
		"Changes in %s regulations", // industry
		"New %s competitors entering the market",
	}
	operationalRiskTemplates = []string{
		"%s staff turnover and training costs",
		"%s equipment breakdowns",
		"%s supply chain disruptions",
	}

	financialKPIs = []string{
		"Daily sales revenue",
		"Customer average transaction value",
		"Cost of goods sold (COGS)",
		"Gross profit margin",
		"Net profit margin",
		"Cash flow from operations",
		"Return on investment (ROI)",
		"Customer acquisition cost",
	}

	recommendations = []string{
		"Start with conservative financial projections and adjust based on actual performance",
		"Maintain a cash reserve of at least 6 months of operating expenses",
		"Implement cost control measures and regular financial monitoring",
		"Consider multiple funding sources to reduce financial risk",
		"Focus on high-margin products and efficient operations",
		"Invest in technology to improve operational efficiency",
		"Build strong relationships with suppliers for better payment terms",
		"Regularly review and adjust pricing strategy based on market conditions",
	}
)

// FallbackNotice is the ai_analysis text of a FallbackReport.
const FallbackNotice = "AI financial analysis is temporarily unavailable. Figures below are conservative baseline estimates."

// ─── COMPUTE ──────────────────────────────────────────────────────────────────

// Compute derives the full baseline report from p. It is total: with an
// initial investment every monetary leaf is investment × fraction, without
// one every monetary leaf is Placeholder. Non-monetary leaves are always
// present. AIAnalysis is left empty.
func Compute(p BusinessProfile) Report {
	est := NewEstimator(p, Dollars)
	bt := p.BusinessType

	return Report{
		BusinessName: p.BusinessName,
		BusinessType: bt,
		FinancialProjections: FinancialProjections{
			RevenueForecast: RevenueForecast{
				Year1: est.Amount(LeafRevenueYear1),
				Year2: est.Amount(LeafRevenueYear2),
				Year3: est.Amount(LeafRevenueYear3),
			},
			ProfitMargins: map[string]string{
				bt + "_services":   "60-70%",
				bt + "_products":   "50-60%",
				bt + "_consulting": "80-90%",
			},
			MonthlyRevenueTargets: MonthlyRevenueTargets{
				Months1To6:  est.Amount(LeafMonthlyTargetMonths1To6),
				Months7To12: est.Amount(LeafMonthlyTargetMonths7To12),
				Year2:       est.Amount(LeafMonthlyTargetYear2),
			},
		},
		FundingRequirements: FundingRequirements{
			InitialInvestment: map[string]string{
				bt + "_equipment": est.Amount(LeafFundingEquipment),
				bt + "_facility":  est.Amount(LeafFundingFacility),
				bt + "_inventory": est.Amount(LeafFundingInventory),
				"marketing":       est.Amount(LeafFundingMarketing),
				"working_capital": est.Amount(LeafFundingWorkingCapital),
				"total":           est.Amount(LeafFundingTotal),
			},
			FundingSources: fundingSources(est),
		},
		CostStructure: CostStructure{
			FixedCosts: FixedCosts{
				Rent:       est.Amount(LeafFixedRent),
				Utilities:  est.Amount(LeafFixedUtilities),
				Insurance:  est.Amount(LeafFixedInsurance),
				Licenses:   est.Amount(LeafFixedLicenses),
				TotalFixed: est.Amount(LeafFixedTotal),
			},
			VariableCosts: variableCosts(bt),
		},
		PricingStrategy: PricingStrategy{
			BusinessType: bt,
			Tiers: map[string]string{
				"basic_" + bt + "_service":   est.Amount(LeafPriceBasic),
				"premium_" + bt + "_service": est.Amount(LeafPricePremium),
				bt + "_consulting":           est.Amount(LeafPriceConsulting),
			},
			Factors: []string{
				"Competitor analysis",
				"Cost-plus pricing",
				"Value-based pricing",
				bt + " market positioning",
			},
		},
		CashFlowManagement: CashFlowManagement{
			DailyCashFlow: DailyCashFlow{
				Inflow:  est.Amount(LeafDailyInflow),
				Outflow: est.Amount(LeafDailyOutflow),
				Net:     est.Amount(LeafDailyNet),
			},
			CashReserves: "Maintain 3-6 months of operating expenses",
			PaymentTerms: PaymentTerms{
				Suppliers: "Net 30 days",
				Customers: "Immediate payment",
				Utilities: "Monthly in advance",
			},
		},
		InvestmentOpportunities: []InvestmentOpportunity{
			{
				Opportunity:   bt + " equipment upgrade",
				Investment:    est.Amount(LeafOpportunityEquipment),
				ROI:           "15-20%",
				PaybackPeriod: "18-24 months",
			},
			{
				Opportunity:   bt + " technology system",
				Investment:    est.Amount(LeafOpportunityTechnology),
				ROI:           "25-30%",
				PaybackPeriod: "12-18 months",
			},
			{
				Opportunity:   bt + " marketing campaign",
				Investment:    est.Amount(LeafOpportunityMarketing),
				ROI:           "20-25%",
				PaybackPeriod: "6-12 months",
			},
		},
		FinancialRisks: FinancialRisks{
			MarketRisks: []string{
				fmt.Sprintf(marketRiskTemplates[0], bt),
				fmt.Sprintf(marketRiskTemplates[1], p.Industry),
				fmt.Sprintf(marketRiskTemplates[2], bt),
			},
			OperationalRisks: interpolate(operationalRiskTemplates, bt),
			MitigationStrategies: []string{
				"Diversify " + bt + " revenue streams",
				"Build emergency fund",
				"Maintain good " + bt + " supplier relationships",
				"Invest in " + bt + " staff training and retention",
			},
		},
		BreakEvenAnalysis: BreakEvenAnalysis{
			MonthlyFixedCosts:         est.Amount(LeafBreakEvenFixedCosts),
			AverageContributionMargin: "20%",
			BreakEvenRevenue:          est.Amount(LeafBreakEvenRevenue),
			BreakEvenTimeframe:        "8-12 months",
		},
		FinancialKPIs:   append([]string(nil), financialKPIs...),
		Recommendations: append([]string(nil), recommendations...),
	}
}

// Fallback builds the reduced report served when no narrative could be
// obtained. Revenue follows the conservative 0.5×/0.75× curve and amounts
// are quoted in baht; pricing tiers are descriptive labels.
func Fallback(p BusinessProfile) FallbackReport {
	est := NewEstimator(p, Baht)
	bt := p.BusinessType

	return FallbackReport{
		BusinessName: p.BusinessName,
		BusinessType: bt,
		FinancialProjections: FallbackProjections{
			RevenueForecast: FallbackRevenueForecast{
				Year1: est.Amount(LeafFallbackRevenueYear1),
				Year2: est.Amount(LeafFallbackRevenueYear2),
			},
		},
		FundingRequirements: FallbackFundingRequirements{
			InitialInvestment: map[string]string{
				"total": est.Amount(LeafFallbackFundingTotal),
			},
		},
		PricingStrategy: PricingStrategy{
			BusinessType: bt,
			Tiers: map[string]string{
				"basic_" + bt + "_service":   "Market-based pricing",
				"premium_" + bt + "_service": "Value-based pricing",
				bt + "_consulting":           "Hourly rate",
			},
		},
		Recommendations: []string{
			"Maintain cash reserves",
			"Monitor costs closely",
			"Focus on high-margin " + bt + " products/services",
			"Build supplier relationships",
		},
		AIAnalysis: FallbackNotice,
	}
}

// ─── HELPERS ──────────────────────────────────────────────────────────────────

func fundingSources(est Estimator) []FundingSource {
	return lo.Map(fundingSplit, func(s fundingShare, _ int) FundingSource {
		return FundingSource{
			Source:     s.source,
			Amount:     est.Amount(s.leaf),
			Percentage: fmt.Sprintf("%d%%", s.percent),
		}
	})
}

func variableCosts(bt string) map[string]string {
	out := make(map[string]string, len(variableCostShares)+1)
	for _, s := range variableCostShares {
		out[bt+"_"+s.suffix] = fmt.Sprintf("%d%% of revenue", s.percent)
	}
	total := lo.SumBy(variableCostShares, func(s costShare) int {
		return s.percent
	})
	out["total_variable"] = fmt.Sprintf("%d%% of revenue", total)
	return out
}

func interpolate(templates []string, value string) []string {
	return lo.Map(templates, func(t string, _ int) string {
		return fmt.Sprintf(t, value)
	})
}
