package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"seller-backend/internal/models"
)

type BrandRepository struct {
	DB *pgxpool.Pool
}

func NewBrandRepository(db *pgxpool.Pool) *BrandRepository {
	return &BrandRepository{DB: db}
}

const brandColumns = `id, seller_id, name, default_margin, created_at, updated_at`

func scanBrand(row rowScanner) (*models.Brand, error) {
	var b models.Brand
	if err := row.Scan(&b.ID, &b.SellerID, &b.Name, &b.DefaultMargin, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, notFound(err, "brand")
	}
	return &b, nil
}

func (r *BrandRepository) Create(ctx context.Context, b *models.Brand) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO brands(seller_id, name, default_margin)
         VALUES($1, $2, $3)
         RETURNING id, created_at, updated_at`,
		b.SellerID, b.Name, b.DefaultMargin,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BrandRepository) Get(ctx context.Context, sellerID, id int) (*models.Brand, error) {
	return scanBrand(r.DB.QueryRow(ctx,
		`SELECT `+brandColumns+` FROM brands WHERE seller_id=$1 AND id=$2`, sellerID, id))
}

func (r *BrandRepository) List(ctx context.Context, sellerID int) ([]*models.Brand, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+brandColumns+` FROM brands WHERE seller_id=$1 ORDER BY name`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []*models.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *BrandRepository) Update(ctx context.Context, b *models.Brand) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE brands SET name=$1, default_margin=$2, updated_at=CURRENT_TIMESTAMP
         WHERE seller_id=$3 AND id=$4
         RETURNING created_at, updated_at`,
		b.Name, b.DefaultMargin, b.SellerID, b.ID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	return notFound(err, "brand")
}

func (r *BrandRepository) Delete(ctx context.Context, sellerID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM brands WHERE seller_id=$1 AND id=$2`, sellerID, id)
	if err != nil {
		return err
	}
	return checkAffected(tag, "brand")
}
