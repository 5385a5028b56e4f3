package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seller-backend/internal/models"
)

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier("Seller")
	n.Out = &buf

	err := n.SendRecoveryLink(context.Background(),
		&models.User{Name: "Ana", Email: "ana@example.com"},
		"https://app.example.com/reset-password?token=abc")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "To: Ana <ana@example.com>")
	assert.Contains(t, buf.String(), "Reset your Seller password")
	assert.Contains(t, buf.String(), "reset-password?token=abc")
}
