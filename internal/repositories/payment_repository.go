package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"seller-backend/internal/ledger"
	"seller-backend/internal/models"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// SettleFunc computes the new balance of a locked order. Returning an error aborts the write.
type SettleFunc func(order *models.Order) (ledger.PaymentResult, error)

// PaymentRecord is the outcome of Record
type PaymentRecord struct {
	Order   *models.Order
	Payment *models.Payment
	Result  ledger.PaymentResult
	// Replayed is set when operationID had already been recorded; nothing was written
	Replayed bool
}

// Record applies a payment to an order in one transaction: the order row is locked,
// a repeated operationID returns the stored payment, settle decides the new balance,
// then the payment row and the order balance are written together.
func (r *PaymentRepository) Record(ctx context.Context, sellerID, orderID int, operationID uuid.UUID, channel string, settle SettleFunc) (*PaymentRecord, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := scanOrder(tx.QueryRow(ctx, orderSelect+` WHERE o.seller_id=$1 AND o.id=$2 FOR UPDATE OF o`, sellerID, orderID))
	if err != nil {
		return nil, err
	}

	if operationID != uuid.Nil {
		existing, err := scanPayment(tx.QueryRow(ctx,
			`SELECT `+paymentColumns+` FROM payments WHERE seller_id=$1 AND operation_id=$2`, sellerID, operationID))
		switch {
		case err == nil:
			if existing.OrderID != orderID {
				return nil, ErrOperationReused
			}
			return &PaymentRecord{Order: order, Payment: existing, Replayed: true}, nil
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	result, err := settle(order)
	if err != nil {
		return nil, err
	}

	var payment *models.Payment
	if result.Settled.IsPositive() {
		if operationID == uuid.Nil {
			operationID = uuid.New()
		}
		payment = &models.Payment{
			SellerID:    sellerID,
			OrderID:     orderID,
			OperationID: operationID,
			Amount:      result.Settled,
			Channel:     channel,
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO payments(seller_id, order_id, operation_id, amount, channel)
			 VALUES($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			sellerID, orderID, operationID, payment.Amount, payment.Channel,
		).Scan(&payment.ID, &payment.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	err = tx.QueryRow(ctx,
		`UPDATE orders SET paid_amount=$1, status=$2, updated_at=CURRENT_TIMESTAMP
		 WHERE seller_id=$3 AND id=$4
		 RETURNING updated_at`,
		result.NewPaidAmount, string(result.NewStatus), sellerID, orderID,
	).Scan(&order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update order balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	order.PaidAmount = result.NewPaidAmount
	order.Status = result.NewStatus
	return &PaymentRecord{Order: order, Payment: payment, Result: result}, nil
}

const paymentColumns = `id, seller_id, order_id, operation_id, amount, channel, created_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(&p.ID, &p.SellerID, &p.OrderID, &p.OperationID, &p.Amount, &p.Channel, &p.CreatedAt); err != nil {
		return nil, notFound(err, "payment")
	}
	return &p, nil
}

// ListByOrder returns an order's payments, oldest first
func (r *PaymentRepository) ListByOrder(ctx context.Context, sellerID, orderID int) ([]models.Payment, error) {
	return r.list(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE seller_id=$1 AND order_id=$2 ORDER BY created_at, id`,
		sellerID, orderID)
}

// ListByOrders returns the payments of several orders, grouped by order id
func (r *PaymentRepository) ListByOrders(ctx context.Context, sellerID int, orderIDs []int) (map[int][]models.Payment, error) {
	grouped := make(map[int][]models.Payment)
	if len(orderIDs) == 0 {
		return grouped, nil
	}
	payments, err := r.list(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE seller_id=$1 AND order_id = ANY($2) ORDER BY created_at, id`,
		sellerID, orderIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		grouped[p.OrderID] = append(grouped[p.OrderID], p)
	}
	return grouped, nil
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]models.Payment, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
