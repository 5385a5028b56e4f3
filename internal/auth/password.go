package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost of 8 keeps logins fast on small hosts (~25ms per hash)
const bcryptCost = 8

// MinPasswordLength applies to signup and password reset
const MinPasswordLength = 6

var (
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters.")
	ErrPasswordMismatch = errors.New("Passwords do not match.")
)

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks if the provided password matches the hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidateNewPassword checks a new password and its confirmation
func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
