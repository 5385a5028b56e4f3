package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"seller-backend/internal/ledger"
	"seller-backend/internal/models"
	"seller-backend/internal/timeutil"
)

const invoiceNote = "Thank you for your purchase! For questions about this invoice, please contact your seller."

// InvoiceService builds printable invoices and archives their PDFs
type InvoiceService struct {
	Orders    OrderStore
	Customers CustomerStore
	Users     UserStore
	Archiver  InvoiceArchiver
	AppName   string
	Currency  string
	// Prefix is the object key prefix archived invoices are stored under
	Prefix string
	Now    func() time.Time
}

func NewInvoiceService(orders OrderStore, customers CustomerStore, users UserStore, archiver InvoiceArchiver) *InvoiceService {
	return &InvoiceService{
		Orders:    orders,
		Customers: customers,
		Users:     users,
		Archiver:  archiver,
		AppName:   "Seller",
		Currency:  "₱",
		Prefix:    "invoices",
		Now:       time.Now,
	}
}

// Build assembles the invoice of an order. Paid is the paid-to-date for credit
// orders and the whole total for cash orders.
func (s *InvoiceService) Build(ctx context.Context, sellerID, orderID int) (*models.Invoice, error) {
	o, err := s.Orders.Get(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	seller, err := s.Users.Get(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}
	customer, err := s.Customers.Get(ctx, sellerID, o.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	inv := &models.Invoice{
		Number:       fmt.Sprintf("INV-%d", o.ID),
		OrderID:      o.ID,
		IssuedOn:     models.NewDate(timeutil.StartOfDay(s.Now())),
		OrderDate:    o.OrderDate,
		SellerName:   seller.Name,
		SellerEmail:  seller.Email,
		Customer:     *customer,
		BrandName:    o.BrandName,
		PaymentLabel: paymentLabel(o),
		Items:        []models.InvoiceLine{},
		Currency:     s.Currency,
		Note:         invoiceNote,
	}
	if o.PaymentType.IsCredit() {
		inv.DueDate = o.DueDate
	}

	total := decimal.Zero
	for _, it := range o.Items {
		amount := it.LineTotalSRP
		if amount.IsZero() {
			amount = it.Quantity.Mul(it.SRPEach)
		}
		label := it.ProductLabel
		if label == "" {
			label = "Unknown product"
		}
		inv.Items = append(inv.Items, models.InvoiceLine{
			Label:     label,
			Quantity:  it.Quantity,
			UnitPrice: it.SRPEach,
			Amount:    amount,
		})
		total = total.Add(amount)
	}

	inv.Total = total
	inv.Paid = total
	if o.PaymentType.IsCredit() {
		inv.Paid = o.PaidAmount
	}
	inv.Balance = ledger.Remaining(ledger.Balance{TotalSRP: inv.Total, PaidAmount: inv.Paid})
	return inv, nil
}

func paymentLabel(o *models.Order) string {
	label := o.PaymentType.Label()
	if !o.PaymentType.IsCredit() {
		return label
	}
	if o.Status == models.OrderStatusPaid {
		return label + " (Paid)"
	}
	return label + " (Pending)"
}

// PDF renders an invoice as an A4 document
func (s *InvoiceService) PDF(inv *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	// Core fonts are cp1252; the peso sign is not, so amounts are prefixed with "PHP"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(d decimal.Decimal) string {
		return "PHP " + d.StringFixed(2)
	}

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr(s.AppName+" - Sales Invoice"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, tr(fmt.Sprintf("%s <%s>", inv.SellerName, inv.SellerEmail)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, "Invoice: "+inv.Number, "LT", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Date: "+dateOrDash(inv.OrderDate), "RT", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Payment: "+inv.PaymentLabel, "LB", 0, "L", false, 0, "")
	due := ""
	if !inv.DueDate.IsZero() {
		due = "Due date: " + inv.DueDate.String()
	}
	pdf.CellFormat(95, 7, due, "RB", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Bill to", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	name := inv.Customer.Name
	if name == "" {
		name = "Unknown customer"
	}
	pdf.CellFormat(190, 7, tr(name), "LR", 1, "L", false, 0, "")
	contact := strings.TrimSpace(strings.Join(nonEmpty(inv.Customer.Phone, inv.Customer.Address), " | "))
	pdf.CellFormat(190, 7, tr(contact), "LRB", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Items
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(100, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	if len(inv.Items) == 0 {
		pdf.CellFormat(190, 6, "No items recorded for this order.", "1", 1, "C", false, 0, "")
	}
	for _, it := range inv.Items {
		pdf.CellFormat(100, 6, tr(truncateLabel(it.Label, 60)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, it.Quantity.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, money(it.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, money(it.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(155, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, money(inv.Total), "", 1, "R", false, 0, "")
	pdf.CellFormat(155, 7, "Amount paid", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, money(inv.Paid), "", 1, "R", false, 0, "")

	if inv.Balance.IsPositive() {
		pdf.SetFillColor(255, 200, 200) // Light red for outstanding
	} else {
		pdf.SetFillColor(200, 255, 200) // Light green for paid
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(155, 8, "Balance due", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, money(inv.Balance), "1", 1, "R", true, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(190, 5, tr(inv.Note), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Archive renders the invoice and stores it under <prefix>/<seller>/<number>.pdf
func (s *InvoiceService) Archive(ctx context.Context, sellerID, orderID int) (*models.InvoiceArchive, error) {
	if s.Archiver == nil {
		return nil, ErrArchiveDisabled
	}

	inv, err := s.Build(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	body, err := s.PDF(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	key := path.Join(s.Prefix, fmt.Sprintf("%d", sellerID), inv.Number+".pdf")
	archive, err := s.Archiver.Put(ctx, key, body, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to archive invoice: %w", err)
	}
	log.Printf("[Invoice] Archived %s for seller %d (%d bytes)", inv.Number, sellerID, len(body))
	return archive, nil
}

func dateOrDash(d models.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// truncateLabel shortens a product label to limit characters, ending in "..."
func truncateLabel(label string, limit int) string {
	runes := []rune(label)
	if len(runes) <= limit {
		return label
	}
	return string(runes[:limit-3]) + "..."
}
