package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"seller-backend/internal/models"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productSelect = `SELECT p.id, p.seller_id, p.brand_id, COALESCE(b.name, ''), p.name, p.category, p.type,
	p.variant_name, p.volume, p.default_srp, p.created_at, p.updated_at
	FROM products p LEFT JOIN brands b ON b.id = p.brand_id`

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.SellerID, &p.BrandID, &p.BrandName, &p.Name, &p.Category, &p.Type,
		&p.VariantName, &p.Volume, &p.DefaultSRP, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "product")
	}
	p.Label = models.ProductLabel(p.Name, p.Type, p.VariantName, p.Volume)
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO products(seller_id, brand_id, name, category, type, variant_name, volume, default_srp)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, created_at, updated_at`,
		p.SellerID, p.BrandID, p.Name, p.Category, p.Type, p.VariantName, p.Volume, p.DefaultSRP,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) Get(ctx context.Context, sellerID, id int) (*models.Product, error) {
	return scanProduct(r.DB.QueryRow(ctx, productSelect+` WHERE p.seller_id=$1 AND p.id=$2`, sellerID, id))
}

// List returns the seller's products by name; brandID > 0 narrows to one brand
func (r *ProductRepository) List(ctx context.Context, sellerID, brandID int) ([]*models.Product, error) {
	query := productSelect + ` WHERE p.seller_id=$1`
	args := []any{sellerID}
	if brandID > 0 {
		query += ` AND p.brand_id=$2`
		args = append(args, brandID)
	}
	query += ` ORDER BY p.name, p.id`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE products SET brand_id=$1, name=$2, category=$3, type=$4, variant_name=$5, volume=$6,
         default_srp=$7, updated_at=CURRENT_TIMESTAMP
         WHERE seller_id=$8 AND id=$9
         RETURNING created_at, updated_at`,
		p.BrandID, p.Name, p.Category, p.Type, p.VariantName, p.Volume, p.DefaultSRP, p.SellerID, p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return notFound(err, "product")
}

func (r *ProductRepository) Delete(ctx context.Context, sellerID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE seller_id=$1 AND id=$2`, sellerID, id)
	if err != nil {
		return err
	}
	return checkAffected(tag, "product")
}
