package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seller-backend/internal/models"
)

type memArchiver struct {
	key  string
	body []byte
}

func (a *memArchiver) Put(_ context.Context, key string, body []byte, contentType string) (*models.InvoiceArchive, error) {
	a.key, a.body = key, body
	return &models.InvoiceArchive{Key: key, Bucket: "test", ArchivedAt: time.Now()}, nil
}

func (f *fixture) invoiceService(t *testing.T, archiver InvoiceArchiver) *InvoiceService {
	t.Helper()
	users := newFakeUsers()
	require.NoError(t, users.Create(context.Background(), &models.User{Name: "Dimerr", Email: "seller@example.com"}))
	// The fake numbers users from 1; the fixture seller is 7
	u, _ := users.Get(context.Background(), 1)
	users.users[seller] = u
	return NewInvoiceService(f.orders, f.customers, users, archiver)
}

func TestInvoice_Build(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.invoiceService(t, nil)

	credit := f.creditOrder(t, "5", "100")
	_, err := f.ledgerService().ApplyPayment(ctx, seller, credit.ID, &models.ApplyPaymentRequest{Amount: num("200"), Channel: "GCash"})
	require.NoError(t, err)

	inv, err := s.Build(ctx, seller, credit.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-"+itoa(credit.ID), inv.Number)
	assert.Equal(t, "Credit (Pending)", inv.PaymentLabel)
	assert.Equal(t, "Maria Santos", inv.Customer.Name)
	assert.Equal(t, "Dimerr", inv.SellerName)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Lipstick — Matte • Red", inv.Items[0].Label)
	assertDecimal(t, "500", inv.Total)
	assertDecimal(t, "200", inv.Paid)
	assertDecimal(t, "300", inv.Balance)
	assert.Equal(t, "2025-03-15", inv.DueDate.String())

	cash, err := f.orderService().Create(ctx, seller, f.request(models.PaymentTypeCash, line(f.cologne.ID, "2", "50", "35")))
	require.NoError(t, err)
	inv, err = s.Build(ctx, seller, cash.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cash", inv.PaymentLabel)
	assertDecimal(t, "100", inv.Paid)
	assertDecimal(t, "0", inv.Balance)
	assert.True(t, inv.DueDate.IsZero())
}

func TestInvoice_PDFAndArchive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o := f.creditOrder(t, "1", "100")

	_, err := f.invoiceService(t, nil).Archive(ctx, seller, o.ID)
	assert.ErrorIs(t, err, ErrArchiveDisabled)

	archiver := &memArchiver{}
	s := f.invoiceService(t, archiver)
	archive, err := s.Archive(ctx, seller, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoices/7/INV-"+itoa(o.ID)+".pdf", archive.Key)
	assert.True(t, bytes.HasPrefix(archiver.body, []byte("%PDF")))
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "Lipstick — Matte • Red", truncateLabel("Lipstick — Matte • Red", 60))

	long := strings.Repeat("a", 56) + "—•—• Red"
	got := truncateLabel(long, 60)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 56)+"—...", got)
	assert.Equal(t, 60, utf8.RuneCountInString(got))
}
