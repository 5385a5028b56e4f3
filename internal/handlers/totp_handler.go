package handlers

import (
	"net/http"

	"seller-backend/internal/models"
	"seller-backend/internal/services"
	"seller-backend/pkg/utils"
)

type TOTPHandler struct {
	TOTPService *services.TOTPService
}

func NewTOTPHandler(totpService *services.TOTPService) *TOTPHandler {
	return &TOTPHandler{TOTPService: totpService}
}

// SetupTOTP initiates 2FA setup - returns secret and QR code
func (h *TOTPHandler) SetupTOTP(w http.ResponseWriter, r *http.Request) {
	id, ok := sellerID(w, r)
	if !ok {
		return
	}

	response, err := h.TOTPService.GenerateSetup(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, response)
}

// EnableTOTP verifies the code and enables 2FA - returns backup codes
func (h *TOTPHandler) EnableTOTP(w http.ResponseWriter, r *http.Request) {
	id, ok := sellerID(w, r)
	if !ok {
		return
	}

	var req models.TOTPEnableRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		http.Error(w, "Verification code is required", http.StatusBadRequest)
		return
	}

	response, err := h.TOTPService.VerifyAndEnable(r.Context(), id, req.Code, getIPAddress(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, response)
}

// DisableTOTP turns off 2FA after verifying password and code
func (h *TOTPHandler) DisableTOTP(w http.ResponseWriter, r *http.Request) {
	id, ok := sellerID(w, r)
	if !ok {
		return
	}

	var req models.TOTPDisableRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Password == "" || req.Code == "" {
		http.Error(w, "Password and verification code are required", http.StatusBadRequest)
		return
	}

	if err := h.TOTPService.Disable(r.Context(), id, req.Password, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "2FA disabled successfully"})
}

// GetStatus returns the 2FA status for the current seller
func (h *TOTPHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := sellerID(w, r)
	if !ok {
		return
	}

	status, err := h.TOTPService.GetStatus(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, status)
}

// RegenerateBackupCodes creates new backup codes (requires password)
func (h *TOTPHandler) RegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	id, ok := sellerID(w, r)
	if !ok {
		return
	}

	var req models.RegenerateBackupCodesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Password == "" {
		http.Error(w, "Password is required", http.StatusBadRequest)
		return
	}

	response, err := h.TOTPService.RegenerateBackupCodes(r.Context(), id, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, response)
}
