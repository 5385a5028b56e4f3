package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seller-backend/internal/handlers"
	"seller-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	totpHandler *handlers.TOTPHandler,
	catalogHandler *handlers.CatalogHandler,
	orderHandler *handlers.OrderHandler,
	ledgerHandler *handlers.LedgerHandler,
	dashboardHandler *handlers.DashboardHandler,
	invoiceHandler *handlers.InvoiceHandler,
	eventsHandler *handlers.EventsHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery, middleware.RequestLogger, middleware.MetricsMiddleware)

	// Health checks and Prometheus scrape (NO AUTHENTICATION REQUIRED)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/login/2fa", authHandler.LoginWith2FA).Methods("POST")
	r.HandleFunc("/auth/forgot-password", authHandler.ForgotPassword).Methods("POST")
	r.HandleFunc("/auth/reset-password", authHandler.ResetPassword).Methods("POST")

	// Everything under /api is scoped to the signed-in seller
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Account and 2FA
	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/2fa/status", totpHandler.GetStatus).Methods("GET")
	api.HandleFunc("/2fa/setup", totpHandler.SetupTOTP).Methods("POST")
	api.HandleFunc("/2fa/enable", totpHandler.EnableTOTP).Methods("POST")
	api.HandleFunc("/2fa/disable", totpHandler.DisableTOTP).Methods("POST")
	api.HandleFunc("/2fa/backup-codes", totpHandler.RegenerateBackupCodes).Methods("POST")

	// Catalog
	api.HandleFunc("/customers", catalogHandler.ListCustomers).Methods("GET")
	api.HandleFunc("/customers", catalogHandler.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers/{id:[0-9]+}", catalogHandler.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", catalogHandler.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id:[0-9]+}", catalogHandler.DeleteCustomer).Methods("DELETE")

	api.HandleFunc("/brands", catalogHandler.ListBrands).Methods("GET")
	api.HandleFunc("/brands", catalogHandler.CreateBrand).Methods("POST")
	api.HandleFunc("/brands/{id:[0-9]+}", catalogHandler.GetBrand).Methods("GET")
	api.HandleFunc("/brands/{id:[0-9]+}", catalogHandler.UpdateBrand).Methods("PUT")
	api.HandleFunc("/brands/{id:[0-9]+}", catalogHandler.DeleteBrand).Methods("DELETE")
	api.HandleFunc("/brands/{id:[0-9]+}/campaigns", catalogHandler.ListCampaigns).Methods("GET")

	api.HandleFunc("/products", catalogHandler.ListProducts).Methods("GET")
	api.HandleFunc("/products", catalogHandler.CreateProduct).Methods("POST")
	api.HandleFunc("/products/{id:[0-9]+}", catalogHandler.GetProduct).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", catalogHandler.UpdateProduct).Methods("PUT")
	api.HandleFunc("/products/{id:[0-9]+}", catalogHandler.DeleteProduct).Methods("DELETE")

	api.HandleFunc("/campaigns", catalogHandler.CreateCampaign).Methods("POST")
	api.HandleFunc("/campaigns/{id:[0-9]+}", catalogHandler.DeleteCampaign).Methods("DELETE")

	// Orders
	api.HandleFunc("/orders", orderHandler.ListOrders).Methods("GET")
	api.HandleFunc("/orders", orderHandler.CreateOrder).Methods("POST")
	api.HandleFunc("/orders/totals", orderHandler.PreviewTotals).Methods("POST")
	api.HandleFunc("/orders/{id:[0-9]+}", orderHandler.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}", orderHandler.UpdateOrder).Methods("PUT")
	api.HandleFunc("/orders/{id:[0-9]+}", orderHandler.DeleteOrder).Methods("DELETE")

	// Ledger
	api.HandleFunc("/orders/{id:[0-9]+}/payments", ledgerHandler.ListPayments).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}/payments", ledgerHandler.ApplyPayment).Methods("POST")
	api.HandleFunc("/orders/{id:[0-9]+}/mark-paid", ledgerHandler.MarkFullyPaid).Methods("POST")
	api.HandleFunc("/credit", ledgerHandler.CreditOrders).Methods("GET")
	api.HandleFunc("/payments/history", ledgerHandler.PaymentHistory).Methods("GET")

	// Dashboard and reminders
	api.HandleFunc("/dashboard", dashboardHandler.GetDashboard).Methods("GET")
	api.HandleFunc("/notifications/due", dashboardHandler.DueReminders).Methods("GET")

	// Invoices
	api.HandleFunc("/orders/{id:[0-9]+}/invoice", invoiceHandler.GetInvoice).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}/invoice/pdf", invoiceHandler.DownloadPDF).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}/invoice/archive", invoiceHandler.ArchiveInvoice).Methods("POST")

	// Realtime change feed (websocket, token via ?token=)
	api.HandleFunc("/events", eventsHandler.Stream).Methods("GET")

	return r
}
