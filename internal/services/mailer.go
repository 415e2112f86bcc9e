package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers reset codes by email through SendGrid
type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridMailer creates a SendGrid-backed mailer
func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendResetCode mails the confirmation code to the account owner
func (m *SendGridMailer) SendResetCode(ctx context.Context, email, nickname string, code int64) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(nickname, email)
	body := fmt.Sprintf("Your password reset confirmation code is %d.", code)
	msg := mail.NewSingleEmail(from, "Password reset confirmation code", to, body, "")

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send reset code email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send reset code email: status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer writes reset codes to the log instead of sending mail.
// Used when no SendGrid API key is configured.
type LogMailer struct{}

// SendResetCode logs the code for the development flow
func (LogMailer) SendResetCode(_ context.Context, email, _ string, code int64) error {
	log.Info().
		Str("email", email).
		Int64("code", code).
		Msg("Password reset code issued")
	return nil
}
