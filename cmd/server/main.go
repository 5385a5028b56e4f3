package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seller-backend/internal/auth"
	"seller-backend/internal/cache"
	"seller-backend/internal/config"
	"seller-backend/internal/database"
	"seller-backend/internal/db"
	"seller-backend/internal/handlers"
	"seller-backend/internal/health"
	h "seller-backend/internal/http"
	"seller-backend/internal/middleware"
	"seller-backend/internal/notify"
	"seller-backend/internal/realtime"
	"seller-backend/internal/repositories"
	"seller-backend/internal/services"
	"seller-backend/internal/storage"
	"seller-backend/internal/timeutil"
	"seller-backend/migrations"
)

func main() {
	cfg := config.Load()

	if err := timeutil.SetLocation(cfg.App.Timezone); err != nil {
		log.Printf("[Config] Unknown timezone %q, keeping %s: %v", cfg.App.Timezone, timeutil.Location(), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("[DB] %v", err)
	}
	defer pool.Close()

	// Run database migrations
	// This automatically creates all required tables on startup
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := database.NewMigrator(pool, migrations.FS).RunMigrations(migrateCtx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	var dashboardCache services.Cache
	var redisPinger health.Pinger
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (dashboard will be computed on every request)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
		dashboardCache = cache.Redis{}
		redisPinger = health.PingFunc(cache.Ping)
	}
	defer cache.Close()

	// Realtime change feed
	hub := realtime.NewHub(nil)
	go hub.Run(ctx)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	totpRepo := repositories.NewTOTPRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	brandRepo := repositories.NewBrandRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	campaignRepo := repositories.NewCampaignRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)

	go pruneTOTPAttempts(ctx, totpRepo)

	// Initialize services
	totpService := services.NewTOTPService(userRepo, totpRepo, cfg.App.Name)
	userService := services.NewUserService(userRepo, jwtManager, totpService,
		notify.NewConsoleNotifier(cfg.App.Name), cfg.App.FrontendURL)
	catalogService := services.NewCatalogService(customerRepo, brandRepo, productRepo, campaignRepo)

	orderService := services.NewOrderService(orderRepo, customerRepo, brandRepo, productRepo, campaignRepo)
	orderService.Events = hub
	ledgerService := services.NewLedgerService(orderRepo, paymentRepo)
	ledgerService.Events = hub
	if dashboardCache != nil {
		catalogService.Cache = dashboardCache
		orderService.Cache = dashboardCache
		ledgerService.Cache = dashboardCache
	}

	dashboardTTL := time.Duration(cfg.App.DashboardCacheTTLMinutes) * time.Minute
	dashboardService := services.NewDashboardService(orderRepo, dashboardCache, dashboardTTL)
	notificationService := services.NewNotificationService(orderRepo, cfg.App.Currency)

	invoiceService := services.NewInvoiceService(orderRepo, customerRepo, userRepo, nil)
	invoiceService.AppName = cfg.App.Name
	invoiceService.Currency = cfg.App.Currency
	if cfg.Storage.Prefix != "" {
		invoiceService.Prefix = cfg.Storage.Prefix
	}
	// Archiver stays nil unless storage is configured, so archive requests answer 503
	if cfg.Storage.Enabled {
		archiver, err := storage.NewS3Archiver(ctx, cfg)
		if err != nil {
			log.Printf("[Storage] Invoice archiving disabled: %v", err)
		} else {
			invoiceService.Archiver = archiver
			log.Printf("[Storage] Archiving invoices to bucket %s", cfg.Storage.Bucket)
		}
	}

	// Initialize handlers
	router := h.NewRouter(
		handlers.NewAuthHandler(userService),
		handlers.NewTOTPHandler(totpService),
		handlers.NewCatalogHandler(catalogService),
		handlers.NewOrderHandler(orderService),
		handlers.NewLedgerHandler(ledgerService),
		handlers.NewDashboardHandler(dashboardService, notificationService),
		handlers.NewInvoiceHandler(invoiceService),
		handlers.NewEventsHandler(hub),
		handlers.NewHealthHandler(health.NewHealthChecker(pool, redisPinger)),
		middleware.NewAuthMiddleware(jwtManager, userRepo),
	)

	corsMiddleware := middleware.NewCORS(cfg)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           corsMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

// pruneTOTPAttempts drops 2FA attempt rows once they are past every rate-limit window
func pruneTOTPAttempts(ctx context.Context, repo *repositories.TOTPRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.CleanupOldAttempts(ctx, 24*time.Hour)
			if err != nil {
				log.Printf("[2FA] Failed to prune verification attempts: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[2FA] Pruned %d old verification attempts", n)
			}
		}
	}
}
