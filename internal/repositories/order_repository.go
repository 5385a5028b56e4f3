package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"seller-backend/internal/models"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderSelect = `SELECT o.id, o.seller_id, o.customer_id, c.name, o.brand_id, b.name, o.campaign_id,
	COALESCE(cp.name, ''), o.order_date, o.due_date, o.payment_type, o.status,
	o.total_srp, o.total_cost, o.profit, o.paid_amount, o.created_at, o.updated_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	JOIN brands b ON b.id = o.brand_id
	LEFT JOIN campaigns cp ON cp.id = o.campaign_id`

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		o           models.Order
		paymentType string
		status      string
	)
	err := row.Scan(&o.ID, &o.SellerID, &o.CustomerID, &o.CustomerName, &o.BrandID, &o.BrandName, &o.CampaignID,
		&o.CampaignName, &o.OrderDate, &o.DueDate, &paymentType, &status,
		&o.TotalSRP, &o.TotalCost, &o.Profit, &o.PaidAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "order")
	}

	// Rows written before "credit" was adopted still say "utang"
	o.PaymentType, err = models.ParsePaymentType(paymentType)
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	return &o, nil
}

// Create inserts the order header and its items in one transaction
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO orders(seller_id, customer_id, brand_id, campaign_id, order_date, due_date, payment_type, status,
		                    total_srp, total_cost, profit, paid_amount)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		o.SellerID, o.CustomerID, o.BrandID, o.CampaignID, dateArg(o.OrderDate), dateArg(o.DueDate),
		string(o.PaymentType), string(o.Status), o.TotalSRP, o.TotalCost, o.Profit, o.PaidAmount,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RebalanceFunc derives the paid-to-date and status of an edited order from the
// paid amount of the locked row.
type RebalanceFunc func(paid decimal.Decimal) (decimal.Decimal, models.OrderStatus)

// Update rewrites the header and replaces every item in one transaction. The row
// is locked first and rebalance decides paid_amount and status from what is
// stored, so a payment committed meanwhile is never written over.
func (r *OrderRepository) Update(ctx context.Context, o *models.Order, rebalance RebalanceFunc) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var paid decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT paid_amount FROM orders WHERE seller_id=$1 AND id=$2 FOR UPDATE`,
		o.SellerID, o.ID,
	).Scan(&paid)
	if err != nil {
		return notFound(err, "order")
	}
	o.PaidAmount, o.Status = rebalance(paid)

	err = tx.QueryRow(ctx,
		`UPDATE orders SET customer_id=$1, brand_id=$2, campaign_id=$3, order_date=$4, due_date=$5,
		        payment_type=$6, status=$7, total_srp=$8, total_cost=$9, profit=$10, paid_amount=$11,
		        updated_at=CURRENT_TIMESTAMP
		 WHERE seller_id=$12 AND id=$13
		 RETURNING created_at, updated_at`,
		o.CustomerID, o.BrandID, o.CampaignID, dateArg(o.OrderDate), dateArg(o.DueDate),
		string(o.PaymentType), string(o.Status), o.TotalSRP, o.TotalCost, o.Profit, o.PaidAmount,
		o.SellerID, o.ID,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}
	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, o *models.Order) error {
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO order_items(order_id, product_id, quantity, srp_each, cost_each, line_total_srp, line_total_cost)
			 VALUES($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			o.ID, item.ProductID, item.Quantity, item.SRPEach, item.CostEach, item.LineTotalSRP, item.LineTotalCost,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

// Get returns one order with names and items
func (r *OrderRepository) Get(ctx context.Context, sellerID, id int) (*models.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, orderSelect+` WHERE o.seller_id=$1 AND o.id=$2`, sellerID, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*models.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// List returns the seller's orders matching filter
func (r *OrderRepository) List(ctx context.Context, sellerID int, filter models.OrderFilter) ([]*models.Order, error) {
	where := []string{"o.seller_id = $1"}
	args := []any{sellerID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "o.status = "+arg(string(filter.Status)))
	}
	switch filter.PaymentType {
	case models.PaymentTypeCredit:
		where = append(where, "o.payment_type IN ('credit', 'utang')")
	case models.PaymentTypeCash:
		where = append(where, "o.payment_type = 'cash'")
	}
	if filter.DueFrom != nil {
		where = append(where, "o.due_date >= "+arg(filter.DueFrom.Time))
	}
	if filter.HasPayments {
		where = append(where, "(o.paid_amount > 0 OR o.status = 'paid')")
	}

	query := orderSelect + " WHERE " + strings.Join(where, " AND ")
	if filter.OrderByDue {
		query += " ORDER BY o.due_date ASC NULLS LAST, o.id"
	} else {
		query += " ORDER BY o.order_date DESC, o.id DESC"
	}
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if filter.WithItems {
		if err := r.attachItems(ctx, orders); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int]*models.Order, len(orders))
	ids := make([]int, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
		o.Items = []models.OrderItem{}
	}

	rows, err := r.DB.Query(ctx,
		`SELECT i.id, i.order_id, i.product_id, p.name, p.type, p.variant_name, p.volume,
		        i.quantity, i.srp_each, i.cost_each, i.line_total_srp, i.line_total_cost
		 FROM order_items i JOIN products p ON p.id = i.product_id
		 WHERE i.order_id = ANY($1)
		 ORDER BY i.order_id, i.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item                       models.OrderItem
			name, typ, variant, volume string
		)
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &name, &typ, &variant, &volume,
			&item.Quantity, &item.SRPEach, &item.CostEach, &item.LineTotalSRP, &item.LineTotalCost)
		if err != nil {
			return err
		}
		item.ProductLabel = models.ProductLabel(name, typ, variant, volume)
		if o := byID[item.OrderID]; o != nil {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

// ListForDashboard returns the aggregation view of every order of the seller
func (r *OrderRepository) ListForDashboard(ctx context.Context, sellerID int) ([]models.DashboardOrder, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT o.total_srp, o.total_cost, o.profit, o.paid_amount, o.payment_type, o.status,
		        o.brand_id, COALESCE(b.name, '')
		 FROM orders o LEFT JOIN brands b ON b.id = o.brand_id
		 WHERE o.seller_id = $1`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.DashboardOrder{}
	for rows.Next() {
		var (
			o                   models.DashboardOrder
			paymentType, status string
		)
		if err := rows.Scan(&o.TotalSRP, &o.TotalCost, &o.Profit, &o.PaidAmount, &paymentType, &status,
			&o.BrandID, &o.BrandName); err != nil {
			return nil, err
		}
		if o.PaymentType, err = models.ParsePaymentType(paymentType); err != nil {
			return nil, err
		}
		o.Status = models.OrderStatus(status)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Delete removes an order; items and payments go with it
func (r *OrderRepository) Delete(ctx context.Context, sellerID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE seller_id=$1 AND id=$2`, sellerID, id)
	if err != nil {
		return err
	}
	return checkAffected(tag, "order")
}
