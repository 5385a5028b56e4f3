// Package notify delivers account messages to sellers.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"seller-backend/internal/models"
)

// ConsoleNotifier prints recovery links instead of emailing them. It stands in
// until a mail provider is configured.
type ConsoleNotifier struct {
	Out     io.Writer
	AppName string
}

func NewConsoleNotifier(appName string) *ConsoleNotifier {
	return &ConsoleNotifier{Out: os.Stdout, AppName: appName}
}

// SendRecoveryLink writes the message that would be emailed to the seller
func (n *ConsoleNotifier) SendRecoveryLink(_ context.Context, user *models.User, link string) error {
	_, err := fmt.Fprintf(n.Out,
		"\n========== PASSWORD RECOVERY ==========\nTo: %s <%s>\nSubject: Reset your %s password\nLink: %s\n=======================================\n\n",
		user.Name, user.Email, n.AppName, link)
	return err
}
