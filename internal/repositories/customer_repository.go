package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"seller-backend/internal/models"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, seller_id, name, phone, address, notes, created_at, updated_at`

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	if err := row.Scan(&c.ID, &c.SellerID, &c.Name, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFound(err, "customer")
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO customers(seller_id, name, phone, address, notes)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		c.SellerID, c.Name, c.Phone, c.Address, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Get(ctx context.Context, sellerID, id int) (*models.Customer, error) {
	return scanCustomer(r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE seller_id=$1 AND id=$2`, sellerID, id))
}

func (r *CustomerRepository) List(ctx context.Context, sellerID int) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE seller_id=$1 ORDER BY name`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE customers SET name=$1, phone=$2, address=$3, notes=$4, updated_at=CURRENT_TIMESTAMP
         WHERE seller_id=$5 AND id=$6
         RETURNING created_at, updated_at`,
		c.Name, c.Phone, c.Address, c.Notes, c.SellerID, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return notFound(err, "customer")
}

// Delete fails with the raw foreign key message while orders still reference the customer
func (r *CustomerRepository) Delete(ctx context.Context, sellerID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE seller_id=$1 AND id=$2`, sellerID, id)
	if err != nil {
		return err
	}
	return checkAffected(tag, "customer")
}
