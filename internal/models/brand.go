package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Brand struct {
	ID       int    `json:"id"`
	SellerID int    `json:"-"`
	Name     string `json:"name"`
	// DefaultMargin is a percent in [0, 100); nil when the seller left it blank.
	DefaultMargin *decimal.Decimal `json:"default_margin"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// BrandRequest carries the margin as text so blank and garbage input can be told apart.
type BrandRequest struct {
	Name          string `json:"name"`
	DefaultMargin string `json:"default_margin"`
}

type Campaign struct {
	ID        int       `json:"id"`
	SellerID  int       `json:"-"`
	BrandID   int       `json:"brand_id"`
	BrandName string    `json:"brand_name,omitempty"`
	Name      string    `json:"name"`
	StartDate Date      `json:"start_date"`
	EndDate   Date      `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

type CampaignRequest struct {
	BrandID   int    `json:"brand_id"`
	Name      string `json:"name"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
}
