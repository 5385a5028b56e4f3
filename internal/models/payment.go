package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one append-only settlement row of an order.
type Payment struct {
	ID          int             `json:"id"`
	SellerID    int             `json:"-"`
	OrderID     int             `json:"order_id"`
	OperationID uuid.UUID       `json:"operation_id"`
	Amount      decimal.Decimal `json:"amount"`
	Channel     string          `json:"channel"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ApplyPaymentRequest struct {
	Amount             LooseNumber `json:"amount"`
	Channel            string      `json:"channel"`
	OperationID        uuid.UUID   `json:"operation_id"`
	ConfirmOverpayment bool        `json:"confirm_overpayment"`
}

type MarkPaidRequest struct {
	Channel     string    `json:"channel"`
	OperationID uuid.UUID `json:"operation_id"`
}

// PaymentOutcome is returned by the ledger endpoints.
type PaymentOutcome struct {
	Order    *Order   `json:"order"`
	Payment  *Payment `json:"payment,omitempty"`
	Overpaid bool     `json:"overpaid"`
	// Replayed is set when the operation id had already been applied.
	Replayed bool `json:"replayed"`
}

// CreditOrder is a pending credit order as shown on the credit tracker.
type CreditOrder struct {
	Order
	DaysUntil int    `json:"days_until"`
	DueLabel  string `json:"due_label"`
	Overdue   bool   `json:"overdue"`
}

// PaymentHistoryEntry is an order with any settlement, plus its payment rows.
type PaymentHistoryEntry struct {
	Order
	Payments []Payment `json:"payments"`
}
