package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType is how an order is settled.
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCredit PaymentType = "credit"

	// paymentTypeUtang is the legacy name of credit; accepted on input and on read.
	paymentTypeUtang = "utang"
)

// ParsePaymentType normalizes user or stored input. "utang" maps to credit.
func ParsePaymentType(s string) (PaymentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PaymentTypeCash):
		return PaymentTypeCash, nil
	case string(PaymentTypeCredit), paymentTypeUtang:
		return PaymentTypeCredit, nil
	}
	return "", fmt.Errorf("unknown payment type %q", s)
}

func (p *PaymentType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParsePaymentType(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p PaymentType) IsCredit() bool {
	return p == PaymentTypeCredit
}

// Label is the human form printed on invoices.
func (p PaymentType) Label() string {
	if p.IsCredit() {
		return "Credit"
	}
	return "Cash"
}

// OrderStatus is the stored settlement status. "partial" is never stored.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPartial OrderStatus = "partial"
	OrderStatusPaid    OrderStatus = "paid"
)

type Order struct {
	ID            int             `json:"id"`
	SellerID      int             `json:"-"`
	CustomerID    int             `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	BrandID       int             `json:"brand_id"`
	BrandName     string          `json:"brand_name"`
	CampaignID    *int            `json:"campaign_id"`
	CampaignName  string          `json:"campaign_name,omitempty"`
	OrderDate     Date            `json:"order_date"`
	DueDate       Date            `json:"due_date"`
	PaymentType   PaymentType     `json:"payment_type"`
	Status        OrderStatus     `json:"status"`
	DisplayStatus OrderStatus     `json:"display_status"`
	TotalSRP      decimal.Decimal `json:"total_srp"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Profit        decimal.Decimal `json:"profit"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Remaining     decimal.Decimal `json:"remaining"`
	Items         []OrderItem     `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID            int             `json:"id"`
	OrderID       int             `json:"order_id"`
	ProductID     int             `json:"product_id"`
	ProductLabel  string          `json:"product_label"`
	Quantity      decimal.Decimal `json:"quantity"`
	SRPEach       decimal.Decimal `json:"srp_each"`
	CostEach      decimal.Decimal `json:"cost_each"`
	LineTotalSRP  decimal.Decimal `json:"line_total_srp"`
	LineTotalCost decimal.Decimal `json:"line_total_cost"`
}

// OrderLineInput is one line of the composer form. Numeric fields are parsed leniently:
// blanks and non-numeric text count as zero.
type OrderLineInput struct {
	ProductID int         `json:"product_id"`
	Quantity  LooseNumber `json:"quantity"`
	SRPEach   LooseNumber `json:"srp_each"`
	CostEach  LooseNumber `json:"cost_each"`
	// SRPEdited marks a line whose SRP was just typed; its cost is re-derived from the brand margin.
	SRPEdited bool `json:"srp_edited"`
}

type SaveOrderRequest struct {
	CustomerID  int              `json:"customer_id"`
	BrandID     int              `json:"brand_id"`
	CampaignID  *int             `json:"campaign_id"`
	OrderDate   Date             `json:"order_date"`
	PaymentType PaymentType      `json:"payment_type"`
	DueDate     Date             `json:"due_date"`
	Lines       []OrderLineInput `json:"lines"`
}

type TotalsPreviewRequest struct {
	BrandID int              `json:"brand_id"`
	Lines   []OrderLineInput `json:"lines"`
}

type TotalsPreviewResponse struct {
	Lines     []OrderLineInput `json:"lines"`
	TotalSRP  decimal.Decimal  `json:"total_srp"`
	TotalCost decimal.Decimal  `json:"total_cost"`
	Profit    decimal.Decimal  `json:"profit"`
}

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	Status      OrderStatus
	PaymentType PaymentType
	DueFrom     *Date
	HasPayments bool
	OrderByDue  bool
	Limit       int
	WithItems   bool
}

// LooseNumber is a form value that reads as zero when blank or non-numeric.
// Valid records whether a number was actually entered.
type LooseNumber struct {
	decimal.Decimal
	Valid bool
}

func NewLooseNumber(d decimal.Decimal) LooseNumber {
	return LooseNumber{Decimal: d, Valid: true}
}

func (n LooseNumber) MarshalJSON() ([]byte, error) {
	return n.Decimal.MarshalJSON()
}

func (n *LooseNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	n.Decimal, n.Valid = decimal.Zero, false
	if s == "" || s == "null" {
		return nil
	}
	if d, err := decimal.NewFromString(s); err == nil {
		n.Decimal, n.Valid = d, true
	}
	return nil
}
