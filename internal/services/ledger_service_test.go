package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seller-backend/internal/ledger"
	"seller-backend/internal/models"
	"seller-backend/internal/repositories"
)

func (f *fixture) creditOrder(t *testing.T, qty, srp string) *models.Order {
	t.Helper()
	o, err := f.orderService().Create(context.Background(), seller,
		f.request(models.PaymentTypeCredit, line(f.lipstick.ID, qty, srp, "1")))
	require.NoError(t, err)
	return o
}

func TestApplyPayment_PartialThenRest(t *testing.T) {
	f := newFixture(t)
	s := f.ledgerService()
	ctx := context.Background()
	o := f.creditOrder(t, "5", "100")

	out, err := s.ApplyPayment(ctx, seller, o.ID, &models.ApplyPaymentRequest{Amount: num("200"), Channel: "GCash"})
	require.NoError(t, err)
	assertDecimal(t, "200", out.Order.PaidAmount)
	assertDecimal(t, "300", out.Order.Remaining)
	assert.Equal(t, models.OrderStatusPending, out.Order.Status)
	assert.Equal(t, models.OrderStatusPartial, out.Order.DisplayStatus)
	require.NotNil(t, out.Payment)
	assert.Equal(t, "GCash", out.Payment.Channel)
	assert.NotEqual(t, uuid.Nil, out.Payment.OperationID)

	out, err = s.ApplyPayment(ctx, seller, o.ID, &models.ApplyPaymentRequest{Amount: num("300"), Channel: "Cash"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, out.Order.Status)
	assertDecimal(t, "0", out.Order.Remaining)

	payments, err := s.ListPayments(ctx, seller, o.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestApplyPayment_Validation(t *testing.T) {
	f := newFixture(t)
	s := f.ledgerService()
	ctx := context.Background()
	o := f.creditOrder(t, "5", "100")

	tests := []struct {
		name    string
		req     models.ApplyPaymentRequest
		wantErr string
	}{
		{"blank amount", models.ApplyPaymentRequest{Channel: "Cash"}, "Please enter a number for the partial payment."},
		{"zero amount", models.ApplyPaymentRequest{Amount: num("0"), Channel: "Cash"}, "Partial payment must be greater than zero."},
		{"negative amount", models.ApplyPaymentRequest{Amount: num("-5"), Channel: "Cash"}, "Partial payment must be greater than zero."},
		{"rounds to zero centavos", models.ApplyPaymentRequest{Amount: num("0.004"), Channel: "Cash"}, "Partial payment must be greater than zero."},
		{"no channel", models.ApplyPaymentRequest{Amount: num("5"), Channel: "  "}, ledger.ErrChannelRequired.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ApplyPayment(ctx, seller, o.ID, &tt.req)
			assert.EqualError(t, err, tt.wantErr)
		})
	}

	got, err := f.orders.Get(ctx, seller, o.ID)
	require.NoError(t, err)
	assertDecimal(t, "0", got.PaidAmount)
	assert.Equal(t, 1, f.events.count(), "only the order creation was published")
}

func TestApplyPayment_SubCentavoAmount(t *testing.T) {
	f := newFixture(t)
	s := f.ledgerService()
	ctx := context.Background()
	o := f.creditOrder(t, "1", "100")

	out, err := s.ApplyPayment(ctx, seller, o.ID, &models.ApplyPaymentRequest{Amount: num("99.996"), Channel: "GCash"})
	require.NoError(t, err)
	assertDecimal(t, "100.00", out.Payment.Amount)
	assertDecimal(t, "100.00", out.Order.PaidAmount)
	assert.Equal(t, models.OrderStatusPaid, out.Order.Status)
	assertDecimal(t, "0", out.Order.Remaining)
}

func TestApplyPayment_Overpayment(t *testing.T) {
	f := newFixture(t)
	s := f.ledgerService()
	ctx := context.Background()
	o := f.creditOrder(t, "1", "100")

	_, err := s.ApplyPayment(ctx, seller, o.ID, &models.ApplyPaymentRequest{Amount: num("150"), Channel: "Cash"})
	var over *ledger.OverpaymentError
	require.True(t, errors.As(err, &over))
	assertDecimal(t, "100", over.Remaining)

	out, err := s.ApplyPayment(ctx, seller, o.ID, &models.ApplyPaymentRequest{
		Amount: num("150"), Channel: "Cash", ConfirmOverpayment: true,
	})
	require.NoError(t, err)
	assert.True(t, out.Overpaid)
	assertDecimal(t, "150", out.Order.PaidAmount)
	assertDecimal(t, "0", out.Order.Remaining)
	assert.Equal(t, models.OrderStatusPaid, out.Order.Status)
}

func TestApplyPayment_ReplayIsIdempotent(t *testing.T) {
	f := newFixture(t)
	s := f.ledgerService()
	ctx := context.Background()
	o := f.creditOrder(t, "5", "100")
	op := uuid.New()

	req := &models.ApplyPaymentRequest{Amount: num("200"), Channel: "GCash", OperationID: op}
	first, err := s.ApplyPayment(ctx, seller, o.ID, req)
	require.NoError(t, err)
	eventsAfterFirst := f.events.count()

	second, err := s.ApplyPayment(ctx, seller, o.ID, req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)
	assertDecimal(t, "200", second.Order.PaidAmount)
	assert.Equal(t, eventsAfterFirst, f.events.count())

	payments, err := s.ListPayments(ctx, seller, o.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	// The same key on another order is a conflict
	other := f.creditOrder(t, "1", "100")
	_, err = s.ApplyPayment(ctx, seller, other.ID, req)
	assert.ErrorIs(t, err, repositories.ErrOperationReused)
}

func TestMarkFullyPaid_RecordsRemainder(t *testing.T) {
	f := newFixture(t)
	s := f.ledgerService()
	ctx := context.Background()
	o := f.creditOrder(t, "5", "100")

	_, err := s.ApplyPayment(ctx, seller, o.ID, &models.ApplyPaymentRequest{Amount: num("200"), Channel: "GCash"})
	require.NoError(t, err)

	out, err := s.MarkFullyPaid(ctx, seller, o.ID, &models.MarkPaidRequest{})
	require.NoError(t, err)
	require.NotNil(t, out.Payment)
	assertDecimal(t, "300", out.Payment.Amount)
	assert.Equal(t, DefaultMarkPaidChannel, out.Payment.Channel)
	assertDecimal(t, "500", out.Order.PaidAmount)
	assert.Equal(t, models.OrderStatusPaid, out.Order.Status)
	assert.Contains(t, f.cache.deleted, DashboardKey(seller))

	_, err = s.MarkFullyPaid(ctx, seller, 9999, &models.MarkPaidRequest{})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCreditOrders_DueLabels(t *testing.T) {
	f := newFixture(t)
	s := f.ledgerService()
	ctx := context.Background()
	s.Now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }

	later := f.creditOrder(t, "1", "100") // due 2025-03-15
	soon, err := f.orderService().Create(ctx, seller, func() *models.SaveOrderRequest {
		r := f.request(models.PaymentTypeCredit, line(f.lipstick.ID, "2", "100", "1"))
		r.DueDate, _ = models.ParseDate("2025-03-08")
		return r
	}())
	require.NoError(t, err)
	_, err = f.orderService().Create(ctx, seller, f.request(models.PaymentTypeCash, line(f.lipstick.ID, "1", "100", "1")))
	require.NoError(t, err)

	credit, err := s.CreditOrders(ctx, seller)
	require.NoError(t, err)
	require.Len(t, credit, 2)

	assert.Equal(t, soon.ID, credit[0].ID)
	assert.Equal(t, "Overdue by 2 day(s)", credit[0].DueLabel)
	assert.True(t, credit[0].Overdue)
	assertDecimal(t, "200", credit[0].Remaining)

	assert.Equal(t, later.ID, credit[1].ID)
	assert.Equal(t, "Due in 5 day(s)", credit[1].DueLabel)
	assert.Equal(t, 5, credit[1].DaysUntil)
}

func TestPaymentHistory(t *testing.T) {
	f := newFixture(t)
	s := f.ledgerService()
	ctx := context.Background()

	unpaid := f.creditOrder(t, "1", "100")
	partial := f.creditOrder(t, "5", "100")
	_, err := s.ApplyPayment(ctx, seller, partial.ID, &models.ApplyPaymentRequest{Amount: num("50"), Channel: "GCash"})
	require.NoError(t, err)
	_, err = s.ApplyPayment(ctx, seller, partial.ID, &models.ApplyPaymentRequest{Amount: num("25"), Channel: "Cash"})
	require.NoError(t, err)

	history, err := s.PaymentHistory(ctx, seller)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, partial.ID, history[0].ID)
	assert.NotEqual(t, unpaid.ID, history[0].ID)
	assert.Equal(t, models.OrderStatusPartial, history[0].DisplayStatus)
	require.Len(t, history[0].Payments, 2)
	assertDecimal(t, "50", history[0].Payments[0].Amount)
	assertDecimal(t, "25", history[0].Payments[1].Amount)
}
