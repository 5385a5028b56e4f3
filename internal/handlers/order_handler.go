package handlers

import (
	"net/http"
	"strconv"

	"seller-backend/internal/models"
	"seller-backend/internal/services"
	"seller-backend/pkg/utils"
)

type OrderHandler struct {
	Service *services.OrderService
}

func NewOrderHandler(s *services.OrderService) *OrderHandler {
	return &OrderHandler{Service: s}
}

// ListOrders supports ?recent=1 for the composer sidebar, or
// ?status=&payment_type=&limit= filters.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	if q.Get("recent") != "" {
		orders, err := h.Service.Recent(r.Context(), seller)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, orders)
		return
	}

	filter := models.OrderFilter{Status: models.OrderStatus(q.Get("status"))}
	if raw := q.Get("payment_type"); raw != "" {
		pt, err := models.ParsePaymentType(raw)
		if err != nil {
			http.Error(w, "Payment type must be cash or credit.", http.StatusBadRequest)
			return
		}
		filter.PaymentType = pt
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = n
	}

	orders, err := h.Service.List(r.Context(), seller, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req models.SaveOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.Service.Create(r.Context(), seller, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, order)
}

// GetOrder returns one order with items, used to pre-fill the edit form
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.Service.Get(r.Context(), seller, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.SaveOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.Service.Update(r.Context(), seller, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), seller, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewTotals recomputes line costs and totals while the seller is typing
func (h *OrderHandler) PreviewTotals(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req models.TotalsPreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	preview, err := h.Service.Preview(r.Context(), seller, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, preview)
}
