package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"seller-backend/internal/auth"
	"seller-backend/internal/ledger"
	"seller-backend/internal/middleware"
	"seller-backend/internal/repositories"
	"seller-backend/internal/services"
	"seller-backend/pkg/utils"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// sellerID returns the authenticated seller; every /api route sits behind Authenticate
func sellerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return id, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeServiceError maps service and repository errors onto status codes.
// Unexpected errors keep their raw text so the seller can report it.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var overpay *ledger.OverpaymentError
	if errors.As(err, &overpay) {
		utils.JSON(w, http.StatusConflict, map[string]any{
			"error":     err.Error(),
			"amount":    overpay.Amount,
			"remaining": overpay.Remaining,
		})
		return
	}

	var totpErr *services.TOTPError
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrChannelRequired),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repositories.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, repositories.ErrOperationReused),
		repositories.IsForeignKeyViolation(err):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidResetToken):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrTooManyAttempts):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.As(err, &totpErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrArchiveDisabled):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Printf("[API] %s %s failed: %v", r.Method, r.URL.Path, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// getIPAddress extracts the real IP address from the request
func getIPAddress(r *http.Request) string {
	return middleware.GetClientIP(r)
}
