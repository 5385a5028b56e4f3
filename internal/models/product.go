package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int              `json:"id"`
	SellerID    int              `json:"-"`
	BrandID     *int             `json:"brand_id"`
	BrandName   string           `json:"brand_name,omitempty"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Type        string           `json:"type"`
	VariantName string           `json:"variant_name"`
	Volume      string           `json:"volume"`
	DefaultSRP  *decimal.Decimal `json:"default_srp"`
	Label       string           `json:"label"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type ProductRequest struct {
	BrandID     *int         `json:"brand_id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Type        string       `json:"type"`
	VariantName string       `json:"variant_name"`
	Volume      string       `json:"volume"`
	DefaultSRP  *LooseNumber `json:"default_srp"`
}

// ProductLabel renders "name — type • variant • volume", skipping blank parts.
func ProductLabel(name, typ, variant, volume string) string {
	var details []string
	for _, p := range []string{typ, variant, volume} {
		if p = strings.TrimSpace(p); p != "" {
			details = append(details, p)
		}
	}
	name = strings.TrimSpace(name)
	if len(details) == 0 {
		return name
	}
	return name + " — " + strings.Join(details, " • ")
}
