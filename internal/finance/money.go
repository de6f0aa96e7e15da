package finance

import (
	"math"
	"math/big"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Currency controls how an amount is decorated. The full report quotes
// dollars; the fallback report quotes baht.
type Currency struct {
	Prefix string
	Suffix string
}

var (
	Dollars = Currency{Prefix: "$"}
	Baht    = Currency{Suffix: " THB"}
)

// Format renders v rounded to whole units with thousands separators, e.g.
// 80000 → "$80,000". Ties round to even. Amounts beyond the int64 range
// are still rendered exactly.
func (c Currency) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return c.Prefix + strconv.FormatFloat(v, 'f', -1, 64) + c.Suffix
	}
	whole, _ := big.NewFloat(math.RoundToEven(v)).Int(nil)
	return c.Prefix + humanize.BigComma(whole) + c.Suffix
}

// Estimator resolves leaves against one profile's initial investment.
type Estimator struct {
	investment float64
	known      bool
	currency   Currency
}

// NewEstimator binds an estimator to p's initial investment.
func NewEstimator(p BusinessProfile, c Currency) Estimator {
	v, ok := p.Investment()
	return Estimator{investment: v, known: ok, currency: c}
}

// Known reports whether figures are derived from a real investment.
func (e Estimator) Known() bool { return e.known }

// Amount returns the formatted figure for leaf, or Placeholder when the
// investment is unknown. An unregistered leaf also yields Placeholder.
func (e Estimator) Amount(leaf Leaf) string {
	f, ok := fractions[leaf]
	if !e.known || !ok {
		return Placeholder
	}
	return e.currency.Format(e.investment*f.of) + f.unit
}
