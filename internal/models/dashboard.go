package models

import "github.com/shopspring/decimal"

// DashboardOrder is the slice of an order the dashboard aggregates over.
type DashboardOrder struct {
	TotalSRP    decimal.Decimal
	TotalCost   decimal.Decimal
	Profit      decimal.Decimal
	PaidAmount  decimal.Decimal
	PaymentType PaymentType
	Status      OrderStatus
	BrandID     *int
	BrandName   string
}

type Dashboard struct {
	TotalSRP       decimal.Decimal `json:"total_srp"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	OrderCount     int             `json:"order_count"`
	PaidOrders     int             `json:"paid_orders"`
	PendingCredit  int             `json:"pending_credit"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	Brands         []BrandRollup   `json:"brands"`
}

type BrandRollup struct {
	BrandID     *int            `json:"brand_id"`
	Name        string          `json:"name"`
	OrderCount  int             `json:"order_count"`
	TotalSRP    decimal.Decimal `json:"total_srp"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}
