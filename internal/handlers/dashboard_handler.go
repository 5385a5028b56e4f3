package handlers

import (
	"net/http"
	"strconv"

	"seller-backend/internal/services"
	"seller-backend/pkg/utils"
)

type DashboardHandler struct {
	Dashboard     *services.DashboardService
	Notifications *services.NotificationService
}

func NewDashboardHandler(dashboard *services.DashboardService, notifications *services.NotificationService) *DashboardHandler {
	return &DashboardHandler{
		Dashboard:     dashboard,
		Notifications: notifications,
	}
}

// GetDashboard returns sales totals and the receivables breakdown
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	dashboard, err := h.Dashboard.Get(r.Context(), seller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, dashboard)
}

// DueReminders lists upcoming credit due dates. ?include_overdue=true also
// returns orders whose due date has already passed.
func (h *DashboardHandler) DueReminders(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	includeOverdue := false
	if raw := r.URL.Query().Get("include_overdue"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "include_overdue must be true or false", http.StatusBadRequest)
			return
		}
		includeOverdue = v
	}

	reminders, err := h.Notifications.DueReminders(r.Context(), seller, includeOverdue)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, reminders)
}
