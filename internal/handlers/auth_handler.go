package handlers

import (
	"errors"
	"net/http"

	"seller-backend/internal/models"
	"seller-backend/internal/services"
	"seller-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Signup handles seller registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	authResp, err := h.Service.Signup(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, authResp)
}

// Login handles password authentication. Accounts with 2FA get a temp token
// to exchange at /auth/login/2fa instead of a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	authResp, step1, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if step1 != nil {
		utils.JSON(w, http.StatusOK, step1)
		return
	}

	utils.JSON(w, http.StatusOK, authResp)
}

// LoginWith2FA handles 2FA verification during login (step 2)
func (h *AuthHandler) LoginWith2FA(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.TempToken == "" || req.Code == "" {
		http.Error(w, "Temp token and verification code are required", http.StatusBadRequest)
		return
	}

	authResp, err := h.Service.LoginWith2FA(r.Context(), req.TempToken, req.Code, getIPAddress(r))
	if err != nil {
		if errors.Is(err, services.ErrInvalidTOTPCode) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, authResp)
}

// ForgotPassword always answers the same way so accounts cannot be probed
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Service.ForgotPassword(r.Context(), &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"message": "If that email has an account, a recovery link is on its way.",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Service.ResetPassword(r.Context(), &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Password updated. You can now log in."})
}

// Me returns the signed-in seller
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := sellerID(w, r)
	if !ok {
		return
	}

	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, user)
}
