package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seller-backend/internal/auth"
	"seller-backend/internal/config"
	"seller-backend/internal/models"
)

type capturedLink struct {
	user *models.User
	link string
}

type captureNotifier struct {
	sent []capturedLink
}

func (n *captureNotifier) SendRecoveryLink(_ context.Context, user *models.User, link string) error {
	n.sent = append(n.sent, capturedLink{user, link})
	return nil
}

func newUserService(t *testing.T) (*UserService, *fakeUsers, *captureNotifier) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "seller-test"

	users := newFakeUsers()
	notifier := &captureNotifier{}
	totpService := NewTOTPService(users, newFakeAttempts(), "Seller")
	s := NewUserService(users, auth.NewJWTManager(cfg), totpService, notifier, "https://app.example.com/")
	return s, users, notifier
}

func TestSignupAndLogin(t *testing.T) {
	s, _, _ := newUserService(t)
	ctx := context.Background()

	resp, err := s.Signup(ctx, &models.SignupRequest{Name: "Ana", Email: " Ana@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana@example.com", resp.User.Email)

	_, err = s.Signup(ctx, &models.SignupRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = s.Signup(ctx, &models.SignupRequest{Name: "Ben", Email: "ben@example.com", Password: "123"})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)

	_, _, err = s.Login(ctx, &models.LoginRequest{Email: "", Password: ""})
	assert.EqualError(t, err, "Please enter email and password.")

	_, _, err = s.Login(ctx, &models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, step, err := s.Login(ctx, &models.LoginRequest{Email: "ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Nil(t, step)
	require.NotNil(t, session)

	claims, err := s.JWTManager.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestForgotAndResetPassword(t *testing.T) {
	s, _, notifier := newUserService(t)
	ctx := context.Background()

	_, err := s.Signup(ctx, &models.SignupRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.EqualError(t, s.ForgotPassword(ctx, &models.ForgotPasswordRequest{}), "Please enter your email.")

	// Unknown emails look the same to the caller
	require.NoError(t, s.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "ghost@example.com"}))
	assert.Empty(t, notifier.sent)

	require.NoError(t, s.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "ana@example.com"}))
	require.Len(t, notifier.sent, 1)
	link := notifier.sent[0].link
	assert.True(t, strings.HasPrefix(link, "https://app.example.com/reset-password?token="), link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")

	// A recovery token never opens a session
	_, err = s.JWTManager.ValidateToken(token)
	assert.Error(t, err)

	assert.EqualError(t, s.ResetPassword(ctx, &models.ResetPasswordRequest{Token: token}), "Please fill in both fields.")
	assert.EqualError(t, s.ResetPassword(ctx, &models.ResetPasswordRequest{Token: token, Password: "newpass1", ConfirmPassword: "newpass2"}), "Passwords do not match.")
	assert.ErrorIs(t, s.ResetPassword(ctx, &models.ResetPasswordRequest{Token: "garbage", Password: "newpass1", ConfirmPassword: "newpass1"}), ErrInvalidResetToken)

	require.NoError(t, s.ResetPassword(ctx, &models.ResetPasswordRequest{Token: token, Password: "newpass1", ConfirmPassword: "newpass1"}))

	_, _, err = s.Login(ctx, &models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, &models.LoginRequest{Email: "ana@example.com", Password: "newpass1"})
	assert.NoError(t, err)
}

func TestLoginWith2FA(t *testing.T) {
	s, users, _ := newUserService(t)
	ctx := context.Background()

	resp, err := s.Signup(ctx, &models.SignupRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	id := resp.User.ID

	setup, err := s.TOTP.GenerateSetup(ctx, id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(setup.QRCode, "data:image/png;base64,"))

	_, err = s.TOTP.VerifyAndEnable(ctx, id, "000000", "10.0.0.1")
	if err != nil {
		assert.ErrorIs(t, err, ErrInvalidTOTPCode)
	}

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	backup, err := s.TOTP.VerifyAndEnable(ctx, id, code, "10.0.0.1")
	require.NoError(t, err)
	require.Len(t, backup.Codes, backupCodeCount)

	session, step, err := s.Login(ctx, &models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Nil(t, session)
	require.NotNil(t, step)
	assert.True(t, step.Requires2FA)

	// The temp token is not a session
	_, err = s.JWTManager.ValidateToken(step.TempToken)
	assert.Error(t, err)

	// A backup code works once
	full, err := s.LoginWith2FA(ctx, step.TempToken, strings.ToLower(backup.Codes[0]), "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, full.Token)
	_, err = s.LoginWith2FA(ctx, step.TempToken, backup.Codes[0], "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidTOTPCode)

	status, err := s.TOTP.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, status.Enabled)

	code, err = totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, s.TOTP.Disable(ctx, id, "wrong", code), ErrInvalidPassword)
	require.NoError(t, s.TOTP.Disable(ctx, id, "secret1", code))

	u, err := users.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, u.TOTPEnabled)
	assert.Empty(t, u.TOTPSecret)
}

func TestTOTP_RateLimited(t *testing.T) {
	users := newFakeUsers()
	attempts := newFakeAttempts()
	s := NewTOTPService(users, attempts, "")
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &models.User{Email: "ana@example.com"}))
	_, err := s.GenerateSetup(ctx, 1)
	require.NoError(t, err)

	attempts.failed[1] = maxFailedAttempts
	_, err = s.VerifyAndEnable(ctx, 1, "123456", "10.0.0.1")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}
