package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"seller-backend/internal/config"
	"seller-backend/internal/models"
	"seller-backend/internal/timeutil"
)

const (
	tokenType2FAPending    = "2fa_pending"
	tokenTypePasswordReset = "password_reset"

	tempTokenTTL  = 5 * time.Minute
	resetTokenTTL = 30 * time.Minute
)

// Claims identify the signed-in seller. UserID doubles as the seller id every query is scoped by.
type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	// Type is empty for session tokens; typed tokens cannot open a session
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	cfg *config.Config
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{cfg: cfg}
}

// GenerateToken creates a new session token for a seller
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	now := timeutil.Now()
	expirationTime := now.Add(time.Duration(j.cfg.JWT.ExpirationHours) * time.Hour)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	return j.sign(claims)
}

// ValidateToken verifies a session token and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := j.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Type != "" {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}

// TempClaims are carried by short-lived single-purpose tokens: the 2FA step between
// login step 1 and step 2, and password recovery links.
type TempClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// GenerateTempToken creates a short-lived token for 2FA verification (5 minutes)
func (j *JWTManager) GenerateTempToken(user *models.User) (string, error) {
	return j.generateTyped(user, tokenType2FAPending, tempTokenTTL)
}

// ValidateTempToken verifies a temporary 2FA token and returns the claims
func (j *JWTManager) ValidateTempToken(tokenString string) (*TempClaims, error) {
	return j.validateTyped(tokenString, tokenType2FAPending)
}

// GenerateResetToken creates the token embedded in a password recovery link (30 minutes)
func (j *JWTManager) GenerateResetToken(user *models.User) (string, error) {
	return j.generateTyped(user, tokenTypePasswordReset, resetTokenTTL)
}

// ValidateResetToken verifies a password recovery token
func (j *JWTManager) ValidateResetToken(tokenString string) (*TempClaims, error) {
	return j.validateTyped(tokenString, tokenTypePasswordReset)
}

func (j *JWTManager) generateTyped(user *models.User, typ string, ttl time.Duration) (string, error) {
	now := timeutil.Now()

	claims := &TempClaims{
		UserID: user.ID,
		Email:  user.Email,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	return j.sign(claims)
}

func (j *JWTManager) validateTyped(tokenString, typ string) (*TempClaims, error) {
	claims := &TempClaims{}
	if err := j.parse(tokenString, claims); err != nil {
		return nil, err
	}

	if claims.Type != typ {
		return nil, errors.New("invalid token type")
	}

	return claims, nil
}

func (j *JWTManager) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

func (j *JWTManager) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	})
	if err != nil {
		return err
	}

	if !token.Valid {
		return errors.New("invalid token")
	}

	return nil
}
