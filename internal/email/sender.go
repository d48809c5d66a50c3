// Package email delivers notification emails over SMTP.
package email

import (
	"context"

	"cleardoor_backend/platform/config"
)

// Sender delivers notification emails. A nil Sender disables email
// delivery; in-app notifications are unaffected.
type Sender interface {
	SendNotificationEmail(ctx context.Context, toEmail, subject, body string) error
}

// NewSender builds the configured sender, or nil when email is disabled.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
