package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"seller-backend/internal/ledger"
	"seller-backend/internal/metrics"
	"seller-backend/internal/models"
)

const defaultDashboardTTL = 5 * time.Minute

// DashboardKey is the cache key of a seller's dashboard
func DashboardKey(sellerID int) string {
	return fmt.Sprintf("dashboard:%d", sellerID)
}

type DashboardService struct {
	Orders OrderStore
	Cache  Cache
	TTL    time.Duration
}

func NewDashboardService(orders OrderStore, cache Cache, ttl time.Duration) *DashboardService {
	if cache == nil {
		cache = noopCache{}
	}
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	return &DashboardService{Orders: orders, Cache: cache, TTL: ttl}
}

// Get returns the seller's sales totals, served from cache while fresh
func (s *DashboardService) Get(ctx context.Context, sellerID int) (*models.Dashboard, error) {
	key := DashboardKey(sellerID)

	if data, ok := s.Cache.Get(ctx, key); ok {
		var d models.Dashboard
		if err := json.Unmarshal(data, &d); err == nil {
			metrics.DashboardCache.WithLabelValues("hit").Inc()
			return &d, nil
		}
		log.Printf("[Dashboard] Ignoring unreadable cache entry %s", key)
	}
	metrics.DashboardCache.WithLabelValues("miss").Inc()

	orders, err := s.Orders.ListForDashboard(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard orders: %w", err)
	}
	d := ledger.Summarize(orders)

	if data, err := json.Marshal(d); err == nil {
		s.Cache.Set(ctx, key, data, s.TTL)
	}
	return &d, nil
}
