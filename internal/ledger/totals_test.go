package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	lines := []LineAmounts{
		{Quantity: dec("2"), SRPEach: dec("100"), CostEach: dec("70")},
		{Quantity: dec("1"), SRPEach: dec("49.50"), CostEach: dec("30")},
	}

	got := ComputeTotals(lines)

	assertDecimal(t, "249.50", got.TotalSRP)
	assertDecimal(t, "170", got.TotalCost)
	assertDecimal(t, "79.50", got.Profit)
}

func TestComputeTotals_Empty(t *testing.T) {
	got := ComputeTotals(nil)
	assert.True(t, got.TotalSRP.IsZero())
	assert.True(t, got.TotalCost.IsZero())
	assert.True(t, got.Profit.IsZero())
}

func TestComputeTotals_AdditiveOverPartitions(t *testing.T) {
	lines := []LineAmounts{
		{Quantity: dec("3"), SRPEach: dec("12.25"), CostEach: dec("8")},
		{Quantity: dec("1"), SRPEach: dec("450"), CostEach: dec("315")},
		{Quantity: dec("0"), SRPEach: dec("99"), CostEach: dec("1")},
		{Quantity: dec("5"), SRPEach: dec("0.10"), CostEach: dec("0.07")},
	}
	whole := ComputeTotals(lines)

	for split := 0; split <= len(lines); split++ {
		left := ComputeTotals(lines[:split])
		right := ComputeTotals(lines[split:])
		assert.True(t, whole.TotalSRP.Equal(left.TotalSRP.Add(right.TotalSRP)), "split %d", split)
		assert.True(t, whole.TotalCost.Equal(left.TotalCost.Add(right.TotalCost)), "split %d", split)
		assert.True(t, whole.Profit.Equal(left.Profit.Add(right.Profit)), "split %d", split)
	}
}

func TestRoundLine(t *testing.T) {
	l := RoundLine(LineAmounts{Quantity: dec("3"), SRPEach: dec("0.335"), CostEach: dec("0.2049")})

	assertDecimal(t, "0.34", l.SRPEach)
	assertDecimal(t, "0.20", l.CostEach)
	assertDecimal(t, "1.02", l.TotalSRP())
	assertDecimal(t, "0.60", l.TotalCost())

	got := ComputeTotals([]LineAmounts{l})
	assertDecimal(t, "1.02", got.TotalSRP)
	assertDecimal(t, "0.42", got.Profit)
}

func TestLineTotalsAreCentavos(t *testing.T) {
	l := LineAmounts{Quantity: dec("1.333"), SRPEach: dec("10.01"), CostEach: dec("7")}
	assertDecimal(t, "13.34", l.TotalSRP())
	assertDecimal(t, "9.33", l.TotalCost())
}

func TestCostFromMargin(t *testing.T) {
	thirty := dec("30")
	cost, ok := CostFromMargin(dec("100"), &thirty)
	assert.True(t, ok)
	assert.Equal(t, "70.00", cost.StringFixed(2))

	m := dec("12.5")
	cost, ok = CostFromMargin(dec("99.99"), &m)
	assert.True(t, ok)
	assertDecimal(t, "87.49", cost)

	zero := decimal.Zero
	cost, ok = CostFromMargin(dec("80"), &zero)
	assert.True(t, ok)
	assertDecimal(t, "80", cost)

	for _, bad := range []string{"100", "150", "-1"} {
		m := dec(bad)
		_, ok := CostFromMargin(dec("100"), &m)
		assert.False(t, ok, "margin %s", bad)
	}

	_, ok = CostFromMargin(dec("100"), nil)
	assert.False(t, ok)
}

func TestEffectiveProfit(t *testing.T) {
	assertDecimal(t, "15", EffectiveProfit(dec("15"), dec("100"), dec("70")))
	assertDecimal(t, "30", EffectiveProfit(decimal.Zero, dec("100"), dec("70")))
}
