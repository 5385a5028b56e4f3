package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"seller-backend/internal/ledger"
	"seller-backend/internal/metrics"
	"seller-backend/internal/models"
	"seller-backend/internal/repositories"
	"seller-backend/internal/timeutil"
)

// DefaultMarkPaidChannel is recorded when a seller settles an order without naming a channel
const DefaultMarkPaidChannel = "Cash"

// LedgerService records payments against orders and lists balances
type LedgerService struct {
	Orders   OrderStore
	Payments PaymentStore
	Cache    Cache
	Events   Publisher
	// Now is the clock used for due labels
	Now func() time.Time
}

func NewLedgerService(orders OrderStore, payments PaymentStore) *LedgerService {
	return &LedgerService{
		Orders:   orders,
		Payments: payments,
		Cache:    noopCache{},
		Events:   noopPublisher{},
		Now:      time.Now,
	}
}

// ApplyPayment records a partial payment. The order row is locked while the new
// balance is computed, and a repeated operation id returns the first result.
func (s *LedgerService) ApplyPayment(ctx context.Context, sellerID, orderID int, req *models.ApplyPaymentRequest) (*models.PaymentOutcome, error) {
	if !req.Amount.Valid {
		return nil, validationError("Please enter a number for the partial payment.")
	}
	// Amounts are stored in centavos; anything that rounds away is not a payment
	amount := ledger.Centavos(req.Amount.Decimal)
	if !amount.IsPositive() {
		return nil, validationError("Partial payment must be greater than zero.")
	}
	channel := strings.TrimSpace(req.Channel)

	opts := ledger.PaymentOptions{RequireChannel: true, AllowOverpayment: req.ConfirmOverpayment}
	rec, err := s.Payments.Record(ctx, sellerID, orderID, req.OperationID, channel,
		func(o *models.Order) (ledger.PaymentResult, error) {
			return ledger.ApplyPayment(ledger.BalanceOf(o), amount, channel, opts)
		})
	if err != nil {
		return nil, err
	}

	if !rec.Replayed {
		metrics.PaymentsRecorded.WithLabelValues("payment").Inc()
		if rec.Result.Overpaid {
			metrics.OverpaymentsConfirmed.Inc()
			log.Printf("[Ledger] Seller %d confirmed overpayment of %s on order %d",
				sellerID, amount.StringFixed(2), orderID)
		}
		log.Printf("[Ledger] Seller %d recorded %s via %s on order %d (remaining %s)",
			sellerID, amount.StringFixed(2), channel, orderID, rec.Result.Remaining.StringFixed(2))
	}
	return s.finish(ctx, sellerID, rec), nil
}

// MarkFullyPaid settles the remaining balance with one payment row for the remainder
func (s *LedgerService) MarkFullyPaid(ctx context.Context, sellerID, orderID int, req *models.MarkPaidRequest) (*models.PaymentOutcome, error) {
	channel := strings.TrimSpace(req.Channel)
	if channel == "" {
		channel = DefaultMarkPaidChannel
	}

	rec, err := s.Payments.Record(ctx, sellerID, orderID, req.OperationID, channel,
		func(o *models.Order) (ledger.PaymentResult, error) {
			return ledger.MarkFullyPaid(ledger.BalanceOf(o)), nil
		})
	if err != nil {
		return nil, err
	}

	if !rec.Replayed {
		metrics.PaymentsRecorded.WithLabelValues("mark_paid").Inc()
		log.Printf("[Ledger] Seller %d marked order %d as paid (settled %s)",
			sellerID, orderID, rec.Result.Settled.StringFixed(2))
	}
	return s.finish(ctx, sellerID, rec), nil
}

func (s *LedgerService) finish(ctx context.Context, sellerID int, rec *repositories.PaymentRecord) *models.PaymentOutcome {
	ledger.Annotate(rec.Order)
	out := &models.PaymentOutcome{
		Order:    rec.Order,
		Payment:  rec.Payment,
		Overpaid: rec.Result.Overpaid,
		Replayed: rec.Replayed,
	}
	if !rec.Replayed {
		s.Cache.Delete(ctx, DashboardKey(sellerID))
		s.Events.Publish(sellerID, EventPayment, out)
	}
	return out
}

// ListPayments returns an order's payment rows, oldest first
func (s *LedgerService) ListPayments(ctx context.Context, sellerID, orderID int) ([]models.Payment, error) {
	if _, err := s.Orders.Get(ctx, sellerID, orderID); err != nil {
		return nil, err
	}
	payments, err := s.Payments.ListByOrder(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// CreditOrders lists pending credit orders with their items, soonest due first
func (s *LedgerService) CreditOrders(ctx context.Context, sellerID int) ([]models.CreditOrder, error) {
	orders, err := s.Orders.List(ctx, sellerID, models.OrderFilter{
		Status:      models.OrderStatusPending,
		PaymentType: models.PaymentTypeCredit,
		OrderByDue:  true,
		WithItems:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list credit orders: %w", err)
	}

	now := s.Now()
	loc := timeutil.Location()
	out := make([]models.CreditOrder, 0, len(orders))
	for _, o := range orders {
		ledger.Annotate(o)
		co := models.CreditOrder{Order: *o}
		if !o.DueDate.IsZero() {
			due := ledger.DueStatus(o.DueDate.Time, now, loc)
			co.DaysUntil = due.DaysUntil
			co.DueLabel = due.Label
			co.Overdue = due.Overdue
		}
		out = append(out, co)
	}
	return out, nil
}

// PaymentHistory lists orders that have received any payment, newest first, each
// with its payment rows.
func (s *LedgerService) PaymentHistory(ctx context.Context, sellerID int) ([]models.PaymentHistoryEntry, error) {
	orders, err := s.Orders.List(ctx, sellerID, models.OrderFilter{
		HasPayments: true,
		WithItems:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payment history: %w", err)
	}

	ids := make([]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	grouped, err := s.Payments.ListByOrders(ctx, sellerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PaymentHistoryEntry, 0, len(orders))
	for _, o := range orders {
		ledger.Annotate(o)
		payments := grouped[o.ID]
		if payments == nil {
			payments = []models.Payment{}
		}
		sort.SliceStable(payments, func(i, j int) bool {
			return payments[i].CreatedAt.Before(payments[j].CreatedAt)
		})
		out = append(out, models.PaymentHistoryEntry{Order: *o, Payments: payments})
	}
	return out, nil
}
