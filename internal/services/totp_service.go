package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"log"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"seller-backend/internal/auth"
	"seller-backend/internal/models"
)

const (
	backupCodeCount   = 10
	backupCodeLength  = 8
	maxFailedAttempts = 5
	rateLimitWindow   = 15 * time.Minute
)

// TOTPService handles optional authenticator-app 2FA for seller accounts
type TOTPService struct {
	Users    UserStore
	Attempts TOTPAttemptStore
	// Issuer is the account label shown in authenticator apps
	Issuer string
}

func NewTOTPService(users UserStore, attempts TOTPAttemptStore, issuer string) *TOTPService {
	if issuer == "" {
		issuer = "Seller"
	}
	return &TOTPService{Users: users, Attempts: attempts, Issuer: issuer}
}

// GenerateSetup stores a fresh, not yet enabled secret and returns it with a QR code
func (s *TOTPService) GenerateSetup(ctx context.Context, userID int) (*models.TOTPSetupResponse, error) {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TOTPEnabled {
		return nil, ErrTOTPAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      s.Issuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable turns 2FA on once the seller proves the app works, and returns
// one-time backup codes
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code, ipAddress string) (*models.BackupCodesResponse, error) {
	if err := s.checkRateLimit(ctx, userID, ipAddress); err != nil {
		return nil, err
	}

	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TOTPSecret == "" {
		return nil, ErrNoTOTPSecret
	}

	if !totp.Validate(strings.TrimSpace(code), user.TOTPSecret) {
		s.logAttempt(ctx, userID, ipAddress, false)
		return nil, ErrInvalidTOTPCode
	}
	s.logAttempt(ctx, userID, ipAddress, true)

	if err := s.Users.EnableTOTP(ctx, userID); err != nil {
		return nil, err
	}
	codes, err := s.generateBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("[2FA] Enabled for seller %d", userID)
	return &models.BackupCodesResponse{Codes: codes}, nil
}

// Verify checks a login code. A backup code is accepted once and then consumed.
func (s *TOTPService) Verify(ctx context.Context, userID int, code, ipAddress string) (bool, error) {
	if err := s.checkRateLimit(ctx, userID, ipAddress); err != nil {
		return false, err
	}

	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if !user.TOTPEnabled || user.TOTPSecret == "" {
		return false, ErrTOTPNotEnabled
	}

	if totp.Validate(code, user.TOTPSecret) || s.consumeBackupCode(ctx, userID, code, user.BackupCodes) {
		s.logAttempt(ctx, userID, ipAddress, true)
		return true, nil
	}

	s.logAttempt(ctx, userID, ipAddress, false)
	return false, ErrInvalidTOTPCode
}

// Disable turns 2FA off after re-checking the password and a current code
func (s *TOTPService) Disable(ctx context.Context, userID int, password, code string) error {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return ErrInvalidPassword
	}
	if !user.TOTPEnabled {
		return ErrTOTPNotEnabled
	}
	if !totp.Validate(strings.TrimSpace(code), user.TOTPSecret) {
		return ErrInvalidTOTPCode
	}

	if err := s.Users.DisableTOTP(ctx, userID); err != nil {
		return err
	}
	log.Printf("[2FA] Disabled for seller %d", userID)
	return nil
}

// RegenerateBackupCodes replaces every backup code
func (s *TOTPService) RegenerateBackupCodes(ctx context.Context, userID int, password string) (*models.BackupCodesResponse, error) {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidPassword
	}
	if !user.TOTPEnabled {
		return nil, ErrTOTPNotEnabled
	}

	codes, err := s.generateBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.BackupCodesResponse{Codes: codes}, nil
}

func (s *TOTPService) GetStatus(ctx context.Context, userID int) (*models.User2FAStatus, error) {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.User2FAStatus{
		Enabled:        user.TOTPEnabled,
		EnabledAt:      user.TOTPVerifiedAt,
		HasBackupCodes: user.BackupCodes != "" && user.BackupCodes != "[]",
	}, nil
}

func (s *TOTPService) generateBackupCodes(ctx context.Context, userID int) ([]string, error) {
	codes := make([]string, backupCodeCount)
	hashed := make([]string, backupCodeCount)
	for i := range codes {
		codes[i] = generateRandomCode(backupCodeLength)
		hash, err := auth.HashPassword(codes[i])
		if err != nil {
			return nil, err
		}
		hashed[i] = hash
	}

	data, err := json.Marshal(hashed)
	if err != nil {
		return nil, err
	}
	if err := s.Users.SetBackupCodes(ctx, userID, string(data)); err != nil {
		return nil, err
	}
	return codes, nil
}

// consumeBackupCode removes code from the stored set when it matches
func (s *TOTPService) consumeBackupCode(ctx context.Context, userID int, code, stored string) bool {
	if stored == "" {
		return false
	}
	var hashed []string
	if err := json.Unmarshal([]byte(stored), &hashed); err != nil {
		return false
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	for i, hash := range hashed {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
			continue
		}
		remaining := append(hashed[:i:i], hashed[i+1:]...)
		data, _ := json.Marshal(remaining)
		if err := s.Users.SetBackupCodes(ctx, userID, string(data)); err != nil {
			log.Printf("[2FA] Failed to consume backup code for seller %d: %v", userID, err)
			return false
		}
		return true
	}
	return false
}

// checkRateLimit refuses verification after too many recent failures per seller or per IP
func (s *TOTPService) checkRateLimit(ctx context.Context, userID int, ipAddress string) error {
	userAttempts, err := s.Attempts.GetRecentFailedAttempts(ctx, userID, rateLimitWindow)
	if err != nil {
		return err
	}
	if userAttempts >= maxFailedAttempts {
		return ErrTooManyAttempts
	}

	ipAttempts, err := s.Attempts.GetRecentFailedAttemptsByIP(ctx, ipAddress, rateLimitWindow)
	if err != nil {
		return err
	}
	if ipAttempts >= maxFailedAttempts*2 { // Allow more for shared IPs
		return ErrTooManyAttempts
	}
	return nil
}

func (s *TOTPService) logAttempt(ctx context.Context, userID int, ipAddress string, success bool) {
	if err := s.Attempts.LogVerificationAttempt(ctx, userID, ipAddress, success); err != nil {
		log.Printf("[2FA] Failed to log attempt for seller %d: %v", userID, err)
	}
}

// generateRandomCode creates a random alphanumeric code
func generateRandomCode(length int) string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // Excludes similar chars: I, O, 0, 1
	code := make([]byte, length)
	randomBytes := make([]byte, length)
	rand.Read(randomBytes)
	for i := range code {
		code[i] = charset[int(randomBytes[i])%len(charset)]
	}
	return string(code)
}

var (
	ErrTooManyAttempts    = &TOTPError{Message: "too many failed attempts, please try again later"}
	ErrNoTOTPSecret       = &TOTPError{Message: "2FA setup not initiated"}
	ErrInvalidTOTPCode    = &TOTPError{Message: "invalid verification code"}
	ErrTOTPNotEnabled     = &TOTPError{Message: "2FA is not enabled"}
	ErrTOTPAlreadyEnabled = &TOTPError{Message: "2FA is already enabled"}
	ErrInvalidPassword    = &TOTPError{Message: "invalid password"}
)

type TOTPError struct {
	Message string
}

func (e *TOTPError) Error() string {
	return e.Message
}
