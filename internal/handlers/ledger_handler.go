package handlers

import (
	"net/http"

	"seller-backend/internal/models"
	"seller-backend/internal/services"
	"seller-backend/pkg/utils"
)

type LedgerHandler struct {
	Service *services.LedgerService
}

func NewLedgerHandler(s *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{Service: s}
}

// ApplyPayment records a partial payment. An amount above the balance answers
// 409 with the remaining balance until confirm_overpayment is set.
func (h *LedgerHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.ApplyPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.Service.ApplyPayment(r.Context(), seller, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, paymentStatus(outcome), outcome)
}

// MarkFullyPaid settles whatever is left on the order
func (h *LedgerHandler) MarkFullyPaid(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.MarkPaidRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.Service.MarkFullyPaid(r.Context(), seller, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, paymentStatus(outcome), outcome)
}

func (h *LedgerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	payments, err := h.Service.ListPayments(r.Context(), seller, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

// CreditOrders is the credit tracker: pending credit orders by due date
func (h *LedgerHandler) CreditOrders(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	orders, err := h.Service.CreditOrders(r.Context(), seller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

func (h *LedgerHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	history, err := h.Service.PaymentHistory(r.Context(), seller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, history)
}

// paymentStatus answers 201 for a new payment row and 200 for a replay or a no-op
func paymentStatus(outcome *models.PaymentOutcome) int {
	if outcome.Replayed || outcome.Payment == nil {
		return http.StatusOK
	}
	return http.StatusCreated
}
