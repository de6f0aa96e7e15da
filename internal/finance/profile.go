// Package finance implements the deterministic side of the financial report:
// the business profile inputs, the fraction table every monetary figure is
// derived from, and the two report shapes (full baseline and reduced
// fallback). It performs no I/O and imports nothing from internal/, so it can
// be exercised without a completion provider or an HTTP server.
package finance

// BusinessProfile is the inbound description of the business under analysis.
// Every field is optional on the wire; absent strings decode to "" and absent
// numerics to nil.
type BusinessProfile struct {
	BusinessName  string `json:"business_name"`
	BusinessType  string `json:"business_type"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	TargetMarket  string `json:"target_market"`
	Industry      string `json:"industry"`
	BusinessModel string `json:"business_model"`

	// InitialInvestment is the single scalar every monetary leaf is derived
	// from. nil and 0 both mean "not specified".
	InitialInvestment *float64 `json:"initial_investment,omitempty"`

	TeamSize    *int     `json:"team_size,omitempty"`
	GrowthGoals []string `json:"growth_goals"`
}

// Investment returns the initial investment and whether it is usable as the
// base for derived figures.
func (p BusinessProfile) Investment() (float64, bool) {
	if p.InitialInvestment == nil || *p.InitialInvestment == 0 {
		return 0, false
	}
	return *p.InitialInvestment, true
}

// StrategicPlan is the optional context produced by the strategy agent. Only
// growth_strategy.short_term_goals is read; every other key is ignored.
type StrategicPlan struct {
	GrowthStrategy GrowthStrategy `json:"growth_strategy"`
}

// GrowthStrategy is the slice of the strategic plan the prompt embeds.
type GrowthStrategy struct {
	ShortTermGoals []string `json:"short_term_goals"`
}

// ShortTermGoals returns the plan's short-term goals, never nil.
func (s StrategicPlan) ShortTermGoals() []string {
	if s.GrowthStrategy.ShortTermGoals == nil {
		return []string{}
	}
	return s.GrowthStrategy.ShortTermGoals
}
