package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"seller-backend/internal/models"
	"seller-backend/internal/repositories"
)

// The interfaces below are satisfied by the pgx repositories and by in-memory fakes in tests.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int, hash string) error
	SetTOTPSecret(ctx context.Context, userID int, secret string) error
	EnableTOTP(ctx context.Context, userID int) error
	DisableTOTP(ctx context.Context, userID int) error
	SetBackupCodes(ctx context.Context, userID int, hashedCodes string) error
}

type TOTPAttemptStore interface {
	LogVerificationAttempt(ctx context.Context, userID int, ipAddress string, success bool) error
	GetRecentFailedAttempts(ctx context.Context, userID int, window time.Duration) (int, error)
	GetRecentFailedAttemptsByIP(ctx context.Context, ip string, window time.Duration) (int, error)
}

type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	Get(ctx context.Context, sellerID, id int) (*models.Customer, error)
	List(ctx context.Context, sellerID int) ([]*models.Customer, error)
	Update(ctx context.Context, c *models.Customer) error
	Delete(ctx context.Context, sellerID, id int) error
}

type BrandStore interface {
	Create(ctx context.Context, b *models.Brand) error
	Get(ctx context.Context, sellerID, id int) (*models.Brand, error)
	List(ctx context.Context, sellerID int) ([]*models.Brand, error)
	Update(ctx context.Context, b *models.Brand) error
	Delete(ctx context.Context, sellerID, id int) error
}

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, sellerID, id int) (*models.Product, error)
	List(ctx context.Context, sellerID, brandID int) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, sellerID, id int) error
}

type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	Get(ctx context.Context, sellerID, id int) (*models.Campaign, error)
	ListByBrand(ctx context.Context, sellerID, brandID int) ([]*models.Campaign, error)
	Delete(ctx context.Context, sellerID, id int) error
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	Update(ctx context.Context, o *models.Order, rebalance repositories.RebalanceFunc) error
	Get(ctx context.Context, sellerID, id int) (*models.Order, error)
	List(ctx context.Context, sellerID int, filter models.OrderFilter) ([]*models.Order, error)
	ListForDashboard(ctx context.Context, sellerID int) ([]models.DashboardOrder, error)
	Delete(ctx context.Context, sellerID, id int) error
}

type PaymentStore interface {
	Record(ctx context.Context, sellerID, orderID int, operationID uuid.UUID, channel string, settle repositories.SettleFunc) (*repositories.PaymentRecord, error)
	ListByOrder(ctx context.Context, sellerID, orderID int) ([]models.Payment, error)
	ListByOrders(ctx context.Context, sellerID int, orderIDs []int) (map[int][]models.Payment, error)
}

// Cache is a byte cache with TTLs; a nil-backed implementation simply misses
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// Publisher fans change events out to a seller's live clients
type Publisher interface {
	Publish(sellerID int, kind string, payload any)
}

// InvoiceArchiver stores rendered invoices in object storage
type InvoiceArchiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (*models.InvoiceArchive, error)
}

// RecoveryNotifier delivers password recovery links
type RecoveryNotifier interface {
	SendRecoveryLink(ctx context.Context, user *models.User, link string) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(int, string, any) {}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (noopCache) Set(context.Context, string, []byte, time.Duration) {}

func (noopCache) Delete(context.Context, ...string) {}
