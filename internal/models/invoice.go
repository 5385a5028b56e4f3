package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the printable view of one order.
type Invoice struct {
	Number       string          `json:"number"`
	OrderID      int             `json:"order_id"`
	IssuedOn     Date            `json:"issued_on"`
	OrderDate    Date            `json:"order_date"`
	DueDate      Date            `json:"due_date"`
	SellerName   string          `json:"seller_name"`
	SellerEmail  string          `json:"seller_email"`
	Customer     Customer        `json:"customer"`
	BrandName    string          `json:"brand_name"`
	PaymentLabel string          `json:"payment_label"`
	Items        []InvoiceLine   `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Balance      decimal.Decimal `json:"balance"`
	Currency     string          `json:"currency"`
	Note         string          `json:"note"`
}

type InvoiceLine struct {
	Label     string          `json:"label"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// InvoiceArchive is where an invoice PDF was stored.
type InvoiceArchive struct {
	Key        string    `json:"key"`
	Bucket     string    `json:"bucket"`
	URL        string    `json:"url,omitempty"`
	ArchivedAt time.Time `json:"archived_at"`
}
