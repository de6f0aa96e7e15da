package narrative

import (
	"fmt"
	"strings"

	"github.com/nyashahama/financial-agent-backend/internal/finance"
)

const notSpecified = "Not specified"

// analysisSections are the eight areas the narrative must cover, each with
// its sub-points.
var analysisSections = []struct {
	title  string
	points []string
}{
	{"Financial Projections and Forecasts", []string{"Revenue projections (1-3 years)", "Profit margin analysis", "Growth trajectory"}},
	{"Funding Requirements and Sources", []string{"Initial capital requirements", "Working capital needs", "Funding sources and options"}},
	{"Cost Structure Analysis", []string{"Fixed and variable costs", "Cost optimization strategies", "Operational efficiency"}},
	{"Pricing Strategy Recommendations", []string{"Pricing models and strategies", "Competitive pricing analysis", "Value-based pricing opportunities"}},
	{"Cash Flow Management", []string{"Cash flow projections", "Working capital management", "Payment terms and cycles"}},
	{"Investment Opportunities", []string{"Growth investment options", "ROI analysis", "Payback periods"}},
	{"Financial Risk Assessment", []string{"Financial risks and mitigation", "Contingency planning", "Financial sustainability"}},
	{"Break-even Analysis", []string{"Break-even point calculation", "Margin analysis", "Profitability thresholds"}},
}

// systemPrompt positions the model as a consultant for this business type
// and industry.
func systemPrompt(p finance.BusinessProfile) string {
	return fmt.Sprintf(
		"You are an expert financial consultant specializing in %s business finance in the %s industry. "+
			"Provide specific, actionable financial recommendations tailored to this business type and industry.",
		p.BusinessType, p.Industry,
	)
}

// userPrompt embeds every profile field and the plan's short-term goals.
func userPrompt(p finance.BusinessProfile, plan finance.StrategicPlan) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "As a financial consultant specializing in %s business finance, analyze the following business and provide financial recommendations:\n\n", p.BusinessType)

	sb.WriteString("Business Information:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", p.BusinessName)
	fmt.Fprintf(&sb, "- Type: %s\n", p.BusinessType)
	fmt.Fprintf(&sb, "- Location: %s\n", p.Location)
	fmt.Fprintf(&sb, "- Description: %s\n", p.Description)
	fmt.Fprintf(&sb, "- Target Market: %s\n", p.TargetMarket)
	fmt.Fprintf(&sb, "- Industry: %s\n", p.Industry)
	fmt.Fprintf(&sb, "- Business Model: %s\n", p.BusinessModel)
	fmt.Fprintf(&sb, "- Initial Investment: %s\n", investmentLine(p))
	fmt.Fprintf(&sb, "- Team Size: %s\n", teamSizeLine(p))
	fmt.Fprintf(&sb, "- Growth Goals: %s\n\n", strings.Join(p.GrowthGoals, ", "))

	fmt.Fprintf(&sb, "Strategic Plan Context: [%s]\n\n", strings.Join(plan.ShortTermGoals(), ", "))

	fmt.Fprintf(&sb, "Please provide financial analysis specifically tailored for this %s business in the %s industry, including:\n\n", p.BusinessType, p.Industry)
	for i, s := range analysisSections {
		fmt.Fprintf(&sb, "%d. %s:\n", i+1, s.title)
		for _, point := range s.points {
			fmt.Fprintf(&sb, "   - %s\n", point)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Focus on practical financial strategies for this %s business in the %s industry.\n", p.BusinessType, p.Industry)
	return sb.String()
}

func investmentLine(p finance.BusinessProfile) string {
	v, ok := p.Investment()
	if !ok {
		return notSpecified
	}
	return finance.Dollars.Format(v)
}

func teamSizeLine(p finance.BusinessProfile) string {
	if p.TeamSize == nil || *p.TeamSize == 0 {
		return notSpecified
	}
	return fmt.Sprintf("%d employees", *p.TeamSize)
}
