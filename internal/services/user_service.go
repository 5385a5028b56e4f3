package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"net/url"
	"strings"

	"seller-backend/internal/auth"
	"seller-backend/internal/models"
	"seller-backend/internal/repositories"
)

type UserService struct {
	Repo       UserStore
	JWTManager *auth.JWTManager
	TOTP       *TOTPService
	Notifier   RecoveryNotifier
	// FrontendURL is where recovery links point: <FrontendURL>/reset-password?token=...
	FrontendURL string
}

func NewUserService(repo UserStore, jwtManager *auth.JWTManager, totpService *TOTPService, notifier RecoveryNotifier, frontendURL string) *UserService {
	return &UserService{
		Repo:        repo,
		JWTManager:  jwtManager,
		TOTP:        totpService,
		Notifier:    notifier,
		FrontendURL: frontendURL,
	}
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// Signup creates a seller account and signs it in
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, validationError("Name, email and password are required.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("Please enter a valid email.")
	}
	if len(req.Password) < auth.MinPasswordLength {
		return nil, auth.ErrPasswordTooShort
	}

	// Check if user already exists
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, validationError("An account with this email already exists.")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[Auth] New seller account %d (%s)", user.ID, user.Email)

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login checks the password. Sellers with 2FA enabled get a short-lived temp token
// instead of a session and finish with LoginWith2FA.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *models.LoginStep1Response, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, nil, validationError("Please enter email and password.")
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	if user.TOTPEnabled {
		temp, err := s.JWTManager.GenerateTempToken(user)
		if err != nil {
			return nil, nil, err
		}
		return nil, &models.LoginStep1Response{
			Requires2FA: true,
			TempToken:   temp,
			Message:     "Enter the code from your authenticator app",
		}, nil
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil, nil
}

// LoginWith2FA exchanges a temp token and a TOTP or backup code for a session
func (s *UserService) LoginWith2FA(ctx context.Context, tempToken, code, ipAddress string) (*models.AuthResponse, error) {
	claims, err := s.JWTManager.ValidateTempToken(tempToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if _, err := s.TOTP.Verify(ctx, claims.UserID, strings.TrimSpace(code), ipAddress); err != nil {
		return nil, err
	}

	user, err := s.Repo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// ForgotPassword sends a recovery link when the email belongs to an account. The
// result is the same either way so accounts cannot be probed.
func (s *UserService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return validationError("Please enter your email.")
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("[Auth] Recovery requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.JWTManager.GenerateResetToken(user)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.FrontendURL, "/"), url.QueryEscape(token))
	if err := s.Notifier.SendRecoveryLink(ctx, user, link); err != nil {
		return fmt.Errorf("failed to send recovery link: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using a recovery token
func (s *UserService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if req.Password == "" || req.ConfirmPassword == "" {
		return validationError("Please fill in both fields.")
	}
	if err := auth.ValidateNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}

	claims, err := s.JWTManager.ValidateResetToken(req.Token)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		return err
	}
	log.Printf("[Auth] Password reset for seller %d", claims.UserID)
	return nil
}
