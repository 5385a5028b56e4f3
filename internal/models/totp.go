package models

import "time"

// Requests of the 2FA endpoints. Codes are 6-digit authenticator codes;
// login and disable also take a backup code.
type (
	TOTPEnableRequest struct {
		Code string `json:"code"`
	}

	// TOTPVerifyRequest is step 2 of a login that returned requires_2fa
	TOTPVerifyRequest struct {
		TempToken string `json:"temp_token"`
		Code      string `json:"code"`
	}

	TOTPDisableRequest struct {
		Password string `json:"password"`
		Code     string `json:"code"`
	}

	RegenerateBackupCodesRequest struct {
		Password string `json:"password"`
	}
)

// TOTPSetupResponse carries the secret for manual entry and the same secret as a
// base64 PNG QR code. Nothing is enabled until a code is confirmed.
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// LoginStep1Response replaces the session when the account has 2FA on
type LoginStep1Response struct {
	Requires2FA bool   `json:"requires_2fa"`
	TempToken   string `json:"temp_token,omitempty"`
	Message     string `json:"message,omitempty"`
}

// BackupCodesResponse holds plaintext codes; only their hashes are stored
type BackupCodesResponse struct {
	Codes []string `json:"codes"`
}

type User2FAStatus struct {
	Enabled        bool       `json:"enabled"`
	EnabledAt      *time.Time `json:"enabled_at,omitempty"`
	HasBackupCodes bool       `json:"has_backup_codes"`
}
