// Package metrics registers the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seller_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seller_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// PaymentsRecorded counts settled payment rows by kind ("payment" or "mark_paid")
	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seller_payments_recorded_total",
		Help: "Payments appended to order ledgers.",
	}, []string{"kind"})

	OverpaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seller_overpayments_confirmed_total",
		Help: "Payments accepted above the remaining balance after confirmation.",
	})

	OrdersSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seller_orders_saved_total",
		Help: "Orders created or updated, by action and payment type.",
	}, []string{"action", "payment_type"})

	DashboardCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seller_dashboard_cache_total",
		Help: "Dashboard cache lookups by result (hit or miss).",
	}, []string{"result"})

	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "seller_realtime_clients",
		Help: "Connected websocket clients.",
	})
)
