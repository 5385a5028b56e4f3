package ledger

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineAmounts is one order line after lenient parsing.
type LineAmounts struct {
	Quantity decimal.Decimal
	SRPEach  decimal.Decimal
	CostEach decimal.Decimal
}

// RoundLine brings a line to stored precision: centavo prices and a
// three-place quantity.
func RoundLine(l LineAmounts) LineAmounts {
	return LineAmounts{
		Quantity: RoundQuantity(l.Quantity),
		SRPEach:  Centavos(l.SRPEach),
		CostEach: Centavos(l.CostEach),
	}
}

func RoundQuantity(q decimal.Decimal) decimal.Decimal {
	return q.Round(3)
}

// TotalSRP is quantity x SRP, rounded to centavos.
func (l LineAmounts) TotalSRP() decimal.Decimal {
	return Centavos(l.Quantity.Mul(l.SRPEach))
}

func (l LineAmounts) TotalCost() decimal.Decimal {
	return Centavos(l.Quantity.Mul(l.CostEach))
}

type Totals struct {
	TotalSRP  decimal.Decimal `json:"total_srp"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Profit    decimal.Decimal `json:"profit"`
}

// ComputeTotals sums the rounded line totals.
func ComputeTotals(lines []LineAmounts) Totals {
	srp, cost := decimal.Zero, decimal.Zero
	for _, l := range lines {
		srp = srp.Add(l.TotalSRP())
		cost = cost.Add(l.TotalCost())
	}
	return Totals{TotalSRP: srp, TotalCost: cost, Profit: srp.Sub(cost)}
}

// CostFromMargin derives the unit cost from an SRP and a brand margin percent,
// rounded to centavos. ok is false when the brand has no usable margin.
func CostFromMargin(srp decimal.Decimal, margin *decimal.Decimal) (cost decimal.Decimal, ok bool) {
	if margin == nil || margin.IsNegative() || margin.GreaterThanOrEqual(hundred) {
		return decimal.Zero, false
	}
	return srp.Mul(hundred.Sub(*margin)).Div(hundred).Round(2), true
}

// EffectiveProfit prefers the stored profit and falls back to srp - cost.
func EffectiveProfit(profit, srp, cost decimal.Decimal) decimal.Decimal {
	if !profit.IsZero() {
		return profit
	}
	return srp.Sub(cost)
}
