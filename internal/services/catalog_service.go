package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"seller-backend/internal/models"
	"seller-backend/internal/repositories"
)

var hundred = decimal.NewFromInt(100)

// CatalogService manages a seller's customers, brands, products and campaigns
type CatalogService struct {
	Customers CustomerStore
	Brands    BrandStore
	Products  ProductStore
	Campaigns CampaignStore
	// Cache holds the dashboard, whose brand rollup carries brand names
	Cache Cache
}

func NewCatalogService(customers CustomerStore, brands BrandStore, products ProductStore, campaigns CampaignStore) *CatalogService {
	return &CatalogService{
		Customers: customers,
		Brands:    brands,
		Products:  products,
		Campaigns: campaigns,
		Cache:     noopCache{},
	}
}

// ============================================
// Customers
// ============================================

func (s *CatalogService) CreateCustomer(ctx context.Context, sellerID int, req *models.CustomerRequest) (*models.Customer, error) {
	c, err := customerFromRequest(req)
	if err != nil {
		return nil, err
	}
	c.SellerID = sellerID

	if err := s.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) GetCustomer(ctx context.Context, sellerID, id int) (*models.Customer, error) {
	return s.Customers.Get(ctx, sellerID, id)
}

func (s *CatalogService) ListCustomers(ctx context.Context, sellerID int) ([]*models.Customer, error) {
	return s.Customers.List(ctx, sellerID)
}

func (s *CatalogService) UpdateCustomer(ctx context.Context, sellerID, id int, req *models.CustomerRequest) (*models.Customer, error) {
	c, err := customerFromRequest(req)
	if err != nil {
		return nil, err
	}
	c.ID, c.SellerID = id, sellerID

	if err := s.Customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCustomer(ctx context.Context, sellerID, id int) error {
	return s.Customers.Delete(ctx, sellerID, id)
}

func customerFromRequest(req *models.CustomerRequest) (*models.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("Name is required.")
	}
	return &models.Customer{
		Name:    name,
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
		Notes:   strings.TrimSpace(req.Notes),
	}, nil
}

// ============================================
// Brands
// ============================================

func (s *CatalogService) CreateBrand(ctx context.Context, sellerID int, req *models.BrandRequest) (*models.Brand, error) {
	b, err := brandFromRequest(req)
	if err != nil {
		return nil, err
	}
	b.SellerID = sellerID

	if err := s.Brands.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *CatalogService) GetBrand(ctx context.Context, sellerID, id int) (*models.Brand, error) {
	return s.Brands.Get(ctx, sellerID, id)
}

func (s *CatalogService) ListBrands(ctx context.Context, sellerID int) ([]*models.Brand, error) {
	return s.Brands.List(ctx, sellerID)
}

func (s *CatalogService) UpdateBrand(ctx context.Context, sellerID, id int, req *models.BrandRequest) (*models.Brand, error) {
	b, err := brandFromRequest(req)
	if err != nil {
		return nil, err
	}
	b.ID, b.SellerID = id, sellerID

	if err := s.Brands.Update(ctx, b); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, DashboardKey(sellerID))
	return b, nil
}

func (s *CatalogService) DeleteBrand(ctx context.Context, sellerID, id int) error {
	if err := s.Brands.Delete(ctx, sellerID, id); err != nil {
		return err
	}
	s.Cache.Delete(ctx, DashboardKey(sellerID))
	return nil
}

func brandFromRequest(req *models.BrandRequest) (*models.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("Please enter a brand name.")
	}

	margin, err := ParseMargin(req.DefaultMargin)
	if err != nil {
		return nil, err
	}
	return &models.Brand{Name: name, DefaultMargin: margin}, nil
}

// ParseMargin reads a margin percent typed by the seller. Blank means "no margin".
func ParseMargin(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	m, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, validationError("Default margin must be a number (or leave it blank).")
	}
	if m.IsNegative() || m.GreaterThanOrEqual(hundred) {
		return nil, validationError("Default margin must be from 0 up to (but not including) 100.")
	}
	return &m, nil
}

// ============================================
// Products
// ============================================

func (s *CatalogService) CreateProduct(ctx context.Context, sellerID int, req *models.ProductRequest) (*models.Product, error) {
	p, err := s.productFromRequest(ctx, sellerID, req)
	if err != nil {
		return nil, err
	}

	if err := s.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, sellerID, id int) (*models.Product, error) {
	return s.Products.Get(ctx, sellerID, id)
}

// ListProducts returns the seller's products; brandID > 0 narrows to one brand
func (s *CatalogService) ListProducts(ctx context.Context, sellerID, brandID int) ([]*models.Product, error) {
	return s.Products.List(ctx, sellerID, brandID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, sellerID, id int, req *models.ProductRequest) (*models.Product, error) {
	p, err := s.productFromRequest(ctx, sellerID, req)
	if err != nil {
		return nil, err
	}
	p.ID = id

	if err := s.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, sellerID, id int) error {
	return s.Products.Delete(ctx, sellerID, id)
}

func (s *CatalogService) productFromRequest(ctx context.Context, sellerID int, req *models.ProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("Please enter a product name.")
	}

	p := &models.Product{
		SellerID:    sellerID,
		Name:        name,
		Category:    strings.TrimSpace(req.Category),
		Type:        strings.TrimSpace(req.Type),
		VariantName: strings.TrimSpace(req.VariantName),
		Volume:      strings.TrimSpace(req.Volume),
	}
	if req.DefaultSRP != nil && req.DefaultSRP.Valid {
		srp := req.DefaultSRP.Decimal
		p.DefaultSRP = &srp
	}

	// Brand is optional, but when given it must be one of the seller's own
	if req.BrandID != nil && *req.BrandID > 0 {
		brand, err := s.Brands.Get(ctx, sellerID, *req.BrandID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, validationError("Please select a valid brand.")
			}
			return nil, err
		}
		id := brand.ID
		p.BrandID = &id
		p.BrandName = brand.Name
	}

	p.Label = models.ProductLabel(p.Name, p.Type, p.VariantName, p.Volume)
	return p, nil
}

// ============================================
// Campaigns
// ============================================

func (s *CatalogService) CreateCampaign(ctx context.Context, sellerID int, req *models.CampaignRequest) (*models.Campaign, error) {
	if req.BrandID <= 0 {
		return nil, validationError("Please select a brand.")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("Please enter a campaign/brochure name.")
	}
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate.Time) {
		return nil, validationError("End date cannot be before the start date.")
	}

	brand, err := s.Brands.Get(ctx, sellerID, req.BrandID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validationError("Please select a brand.")
		}
		return nil, err
	}

	c := &models.Campaign{
		SellerID:  sellerID,
		BrandID:   brand.ID,
		BrandName: brand.Name,
		Name:      name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.Campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns returns a brand's campaigns, newest first
func (s *CatalogService) ListCampaigns(ctx context.Context, sellerID, brandID int) ([]*models.Campaign, error) {
	return s.Campaigns.ListByBrand(ctx, sellerID, brandID)
}

func (s *CatalogService) DeleteCampaign(ctx context.Context, sellerID, id int) error {
	return s.Campaigns.Delete(ctx, sellerID, id)
}
