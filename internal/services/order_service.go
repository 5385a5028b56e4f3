package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"seller-backend/internal/ledger"
	"seller-backend/internal/metrics"
	"seller-backend/internal/models"
	"seller-backend/internal/repositories"
)

// Realtime event kinds
const (
	EventOrderSaved   = "order.saved"
	EventOrderDeleted = "order.deleted"
	EventPayment      = "order.payment"
)

const recentOrdersLimit = 20

// OrderService composes orders: line filtering, margin auto-fill and totals
type OrderService struct {
	Orders    OrderStore
	Customers CustomerStore
	Brands    BrandStore
	Products  ProductStore
	Campaigns CampaignStore
	Cache     Cache
	Events    Publisher
}

func NewOrderService(orders OrderStore, customers CustomerStore, brands BrandStore, products ProductStore, campaigns CampaignStore) *OrderService {
	return &OrderService{
		Orders:    orders,
		Customers: customers,
		Brands:    brands,
		Products:  products,
		Campaigns: campaigns,
		Cache:     noopCache{},
		Events:    noopPublisher{},
	}
}

// FillLines rounds each line to stored precision, then applies the brand margin to
// lines whose SRP was just edited or that have no cost yet. Lines are returned in
// order; the input slice is not modified.
func FillLines(lines []models.OrderLineInput, margin *decimal.Decimal) []models.OrderLineInput {
	out := make([]models.OrderLineInput, len(lines))
	for i, l := range lines {
		l = roundLine(l)
		if l.SRPEdited || l.CostEach.IsZero() {
			if cost, ok := ledger.CostFromMargin(l.SRPEach.Decimal, margin); ok && l.SRPEach.Valid {
				l.CostEach = models.NewLooseNumber(cost)
			}
		}
		l.SRPEdited = false
		out[i] = l
	}
	return out
}

// ValidLines keeps the lines that name a product and carry a positive quantity
func ValidLines(lines []models.OrderLineInput) []models.OrderLineInput {
	var out []models.OrderLineInput
	for _, l := range lines {
		if l.ProductID > 0 && ledger.RoundQuantity(l.Quantity.Decimal).IsPositive() {
			out = append(out, l)
		}
	}
	return out
}

func roundLine(l models.OrderLineInput) models.OrderLineInput {
	r := ledger.RoundLine(ledger.LineAmounts{
		Quantity: l.Quantity.Decimal,
		SRPEach:  l.SRPEach.Decimal,
		CostEach: l.CostEach.Decimal,
	})
	l.Quantity.Decimal = r.Quantity
	l.SRPEach.Decimal = r.SRPEach
	l.CostEach.Decimal = r.CostEach
	return l
}

func lineAmounts(lines []models.OrderLineInput) []ledger.LineAmounts {
	amounts := make([]ledger.LineAmounts, len(lines))
	for i, l := range lines {
		amounts[i] = ledger.LineAmounts{
			Quantity: l.Quantity.Decimal,
			SRPEach:  l.SRPEach.Decimal,
			CostEach: l.CostEach.Decimal,
		}
	}
	return amounts
}

// Preview recomputes the composer totals as the seller types. Every line counts,
// including ones that would be dropped on save.
func (s *OrderService) Preview(ctx context.Context, sellerID int, req *models.TotalsPreviewRequest) (*models.TotalsPreviewResponse, error) {
	var margin *decimal.Decimal
	if req.BrandID > 0 {
		brand, err := s.Brands.Get(ctx, sellerID, req.BrandID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		if brand != nil {
			margin = brand.DefaultMargin
		}
	}

	lines := FillLines(req.Lines, margin)
	totals := ledger.ComputeTotals(lineAmounts(lines))
	return &models.TotalsPreviewResponse{
		Lines:     lines,
		TotalSRP:  totals.TotalSRP,
		TotalCost: totals.TotalCost,
		Profit:    totals.Profit,
	}, nil
}

// Create saves a new order. Cash orders are settled immediately; credit orders
// start pending with nothing paid.
func (s *OrderService) Create(ctx context.Context, sellerID int, req *models.SaveOrderRequest) (*models.Order, error) {
	o, err := s.compose(ctx, sellerID, req)
	if err != nil {
		return nil, err
	}

	if o.PaymentType.IsCredit() {
		o.PaidAmount = decimal.Zero
		o.Status = models.OrderStatusPending
	} else {
		o.PaidAmount = o.TotalSRP
		o.Status = models.OrderStatusPaid
	}

	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	log.Printf("[Orders] Seller %d created order %d (%s, total %s)",
		sellerID, o.ID, o.PaymentType, o.TotalSRP.StringFixed(2))
	metrics.OrdersSaved.WithLabelValues("create", string(o.PaymentType)).Inc()
	s.changed(ctx, sellerID, EventOrderSaved, o)
	return o, nil
}

// Update replaces an order's header and lines. Recorded payments are kept: a cash
// order is re-settled to the new total and a credit order's status follows its
// paid-to-date.
func (s *OrderService) Update(ctx context.Context, sellerID, id int, req *models.SaveOrderRequest) (*models.Order, error) {
	o, err := s.compose(ctx, sellerID, req)
	if err != nil {
		return nil, err
	}
	o.ID = id

	// The balance is taken from the locked row so a payment recorded meanwhile is kept
	err = s.Orders.Update(ctx, o, func(paid decimal.Decimal) (decimal.Decimal, models.OrderStatus) {
		return ledger.Rebalance(o.TotalSRP, paid, o.PaymentType)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	log.Printf("[Orders] Seller %d updated order %d", sellerID, o.ID)
	metrics.OrdersSaved.WithLabelValues("update", string(o.PaymentType)).Inc()
	s.changed(ctx, sellerID, EventOrderSaved, o)
	return o, nil
}

// compose validates the form and builds the order header and items
func (s *OrderService) compose(ctx context.Context, sellerID int, req *models.SaveOrderRequest) (*models.Order, error) {
	if req.CustomerID <= 0 || req.BrandID <= 0 || req.OrderDate.IsZero() {
		return nil, validationError("Please select customer, brand and order date.")
	}
	lines := ValidLines(req.Lines)
	if len(lines) == 0 {
		return nil, validationError("Please add at least one product with quantity.")
	}

	customer, err := s.Customers.Get(ctx, sellerID, req.CustomerID)
	if err != nil {
		return nil, lookupError(err, "Please select customer, brand and order date.")
	}
	brand, err := s.Brands.Get(ctx, sellerID, req.BrandID)
	if err != nil {
		return nil, lookupError(err, "Please select customer, brand and order date.")
	}

	paymentType, err := models.ParsePaymentType(string(req.PaymentType))
	if err != nil {
		return nil, validationError("Payment type must be cash or credit.")
	}

	o := &models.Order{
		SellerID:     sellerID,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		BrandID:      brand.ID,
		BrandName:    brand.Name,
		OrderDate:    req.OrderDate,
		PaymentType:  paymentType,
	}
	if o.PaymentType.IsCredit() {
		o.DueDate = req.DueDate
	}

	if req.CampaignID != nil && *req.CampaignID > 0 {
		campaign, err := s.Campaigns.Get(ctx, sellerID, *req.CampaignID)
		if err != nil {
			return nil, lookupError(err, "Please select a valid campaign.")
		}
		if campaign.BrandID != brand.ID {
			return nil, validationError("The campaign belongs to a different brand.")
		}
		cid := campaign.ID
		o.CampaignID = &cid
		o.CampaignName = campaign.Name
	}

	lines = FillLines(lines, brand.DefaultMargin)
	for _, l := range lines {
		product, err := s.Products.Get(ctx, sellerID, l.ProductID)
		if err != nil {
			return nil, lookupError(err, "Please select a valid product.")
		}
		item := models.OrderItem{
			ProductID:    product.ID,
			ProductLabel: product.Label,
			Quantity:     l.Quantity.Decimal,
			SRPEach:      l.SRPEach.Decimal,
			CostEach:     l.CostEach.Decimal,
		}
		amounts := ledger.LineAmounts{Quantity: item.Quantity, SRPEach: item.SRPEach, CostEach: item.CostEach}
		item.LineTotalSRP = amounts.TotalSRP()
		item.LineTotalCost = amounts.TotalCost()
		o.Items = append(o.Items, item)
	}

	totals := ledger.ComputeTotals(lineAmounts(lines))
	o.TotalSRP = totals.TotalSRP
	o.TotalCost = totals.TotalCost
	o.Profit = totals.Profit
	return o, nil
}

// lookupError turns a missing referenced row into a validation message
func lookupError(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return validationError(msg)
	}
	return err
}

func (s *OrderService) Get(ctx context.Context, sellerID, id int) (*models.Order, error) {
	o, err := s.Orders.Get(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	ledger.Annotate(o)
	return o, nil
}

func (s *OrderService) List(ctx context.Context, sellerID int, filter models.OrderFilter) ([]*models.Order, error) {
	orders, err := s.Orders.List(ctx, sellerID, filter)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		ledger.Annotate(o)
	}
	return orders, nil
}

// Recent lists the newest pending orders for the composer sidebar
func (s *OrderService) Recent(ctx context.Context, sellerID int) ([]*models.Order, error) {
	return s.List(ctx, sellerID, models.OrderFilter{
		Status: models.OrderStatusPending,
		Limit:  recentOrdersLimit,
	})
}

func (s *OrderService) Delete(ctx context.Context, sellerID, id int) error {
	if err := s.Orders.Delete(ctx, sellerID, id); err != nil {
		return err
	}
	log.Printf("[Orders] Seller %d deleted order %d", sellerID, id)
	s.changed(ctx, sellerID, EventOrderDeleted, map[string]int{"id": id})
	return nil
}

func (s *OrderService) changed(ctx context.Context, sellerID int, kind string, payload any) {
	s.Cache.Delete(ctx, DashboardKey(sellerID))
	s.Events.Publish(sellerID, kind, payload)
}
