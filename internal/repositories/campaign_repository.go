package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"seller-backend/internal/models"
)

type CampaignRepository struct {
	DB *pgxpool.Pool
}

func NewCampaignRepository(db *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *models.Campaign) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO campaigns(seller_id, brand_id, name, start_date, end_date)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at`,
		c.SellerID, c.BrandID, c.Name, dateArg(c.StartDate), dateArg(c.EndDate),
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *CampaignRepository) Get(ctx context.Context, sellerID, id int) (*models.Campaign, error) {
	var c models.Campaign
	err := r.DB.QueryRow(ctx,
		`SELECT cp.id, cp.seller_id, cp.brand_id, b.name, cp.name, cp.start_date, cp.end_date, cp.created_at
         FROM campaigns cp JOIN brands b ON b.id = cp.brand_id
         WHERE cp.seller_id=$1 AND cp.id=$2`, sellerID, id,
	).Scan(&c.ID, &c.SellerID, &c.BrandID, &c.BrandName, &c.Name, &c.StartDate, &c.EndDate, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "campaign")
	}
	return &c, nil
}

// ListByBrand returns a brand's campaigns, newest first
func (r *CampaignRepository) ListByBrand(ctx context.Context, sellerID, brandID int) ([]*models.Campaign, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT cp.id, cp.seller_id, cp.brand_id, b.name, cp.name, cp.start_date, cp.end_date, cp.created_at
         FROM campaigns cp JOIN brands b ON b.id = cp.brand_id
         WHERE cp.seller_id=$1 AND cp.brand_id=$2
         ORDER BY cp.created_at DESC, cp.id DESC`, sellerID, brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.SellerID, &c.BrandID, &c.BrandName, &c.Name, &c.StartDate, &c.EndDate, &c.CreatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, &c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Delete(ctx context.Context, sellerID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM campaigns WHERE seller_id=$1 AND id=$2`, sellerID, id)
	if err != nil {
		return err
	}
	return checkAffected(tag, "campaign")
}
