// Package ledger holds the pure balance bookkeeping of orders: payments, remaining
// balances, settlement status, due-date labels, order totals and dashboard sums.
// Nothing here performs I/O; callers persist the results.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"seller-backend/internal/models"
)

var (
	ErrInvalidAmount   = errors.New("payment amount must be greater than zero")
	ErrChannelRequired = errors.New("payment channel is required")
)

// OverpaymentError is returned when a payment exceeds the remaining balance and the
// caller has not confirmed it.
type OverpaymentError struct {
	Amount    decimal.Decimal
	Remaining decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("amount %s is more than the remaining balance (%s)",
		e.Amount.StringFixed(2), e.Remaining.StringFixed(2))
}

// Balance is the running balance of one order.
type Balance struct {
	TotalSRP   decimal.Decimal
	PaidAmount decimal.Decimal
}

// BalanceOf extracts the balance of an order.
func BalanceOf(o *models.Order) Balance {
	return Balance{TotalSRP: o.TotalSRP, PaidAmount: o.PaidAmount}
}

type PaymentOptions struct {
	RequireChannel   bool
	AllowOverpayment bool
}

// PaymentResult is the order state after a payment.
type PaymentResult struct {
	NewPaidAmount decimal.Decimal
	NewStatus     models.OrderStatus
	Remaining     decimal.Decimal
	// Settled is the amount the payment row records.
	Settled decimal.Decimal
	// Overpaid is set when a confirmed payment went past the remaining balance.
	Overpaid bool
}

// Centavos rounds a peso amount to the two places money columns store.
func Centavos(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Remaining is max(total - paid, 0).
func Remaining(b Balance) decimal.Decimal {
	r := b.TotalSRP.Sub(b.PaidAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// StatusFor is paid iff paid >= total.
func StatusFor(total, paid decimal.Decimal) models.OrderStatus {
	if paid.GreaterThanOrEqual(total) {
		return models.OrderStatusPaid
	}
	return models.OrderStatusPending
}

// ApplyPayment adds amount, rounded to centavos, to the paid-to-date of b. The
// balance itself is not modified.
func ApplyPayment(b Balance, amount decimal.Decimal, channel string, opts PaymentOptions) (PaymentResult, error) {
	amount = Centavos(amount)
	if !amount.IsPositive() {
		return PaymentResult{}, ErrInvalidAmount
	}
	if opts.RequireChannel && strings.TrimSpace(channel) == "" {
		return PaymentResult{}, ErrChannelRequired
	}

	remaining := Remaining(b)
	overpaid := amount.GreaterThan(remaining)
	if overpaid && !opts.AllowOverpayment {
		return PaymentResult{}, &OverpaymentError{Amount: amount, Remaining: remaining}
	}

	paid := b.PaidAmount.Add(amount)
	return PaymentResult{
		NewPaidAmount: paid,
		NewStatus:     StatusFor(b.TotalSRP, paid),
		Remaining:     Remaining(Balance{TotalSRP: b.TotalSRP, PaidAmount: paid}),
		Settled:       amount,
		Overpaid:      overpaid,
	}, nil
}

// MarkFullyPaid settles whatever is left. Paid-to-date never decreases, so an
// already overpaid order keeps its paid amount.
func MarkFullyPaid(b Balance) PaymentResult {
	remaining := Remaining(b)
	return PaymentResult{
		NewPaidAmount: decimal.Max(b.TotalSRP, b.PaidAmount),
		NewStatus:     models.OrderStatusPaid,
		Remaining:     decimal.Zero,
		Settled:       remaining,
	}
}

// Rebalance re-derives the paid-to-date and status of an edited order from the
// paid amount currently stored. Cash orders are settled to the new total; credit
// orders keep what was paid. Paid-to-date never decreases.
func Rebalance(total, paid decimal.Decimal, pt models.PaymentType) (decimal.Decimal, models.OrderStatus) {
	if pt.IsCredit() {
		return paid, StatusFor(total, paid)
	}
	return decimal.Max(total, paid), models.OrderStatusPaid
}

// DisplayStatus derives the list label. "partial" exists only here.
func DisplayStatus(b Balance, stored models.OrderStatus) models.OrderStatus {
	if !b.PaidAmount.IsPositive() {
		return stored
	}
	if Remaining(b).IsPositive() {
		return models.OrderStatusPartial
	}
	return models.OrderStatusPaid
}

// Annotate fills the derived fields of an order in place.
func Annotate(o *models.Order) {
	b := BalanceOf(o)
	o.Remaining = Remaining(b)
	o.DisplayStatus = DisplayStatus(b, o.Status)
}
