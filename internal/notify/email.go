package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailSender delivers notifications through Resend. In development (or
// without an API key) it logs the message instead of sending it.
type EmailSender struct {
	client      *resend.Client
	fromEmail   string
	frontendURL string
	appName     string
	isDev       bool
}

func NewEmailSender(apiKey, fromEmail, frontendURL, appName string, isDev bool) *EmailSender {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailSender{
		client:      client,
		fromEmail:   fromEmail,
		frontendURL: frontendURL,
		appName:     appName,
		isDev:       isDev,
	}
}

func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	var subject, body string

	switch msg.Kind {
	case KindVerifyAccount:
		subject, body = verifyAccountTemplate(msg.Name, s.verifyURL(msg), s.appName)
	case KindForgetPassword:
		subject, body = forgetPasswordTemplate(msg.Name, s.resetURL(msg), s.appName)
	default:
		return fmt.Errorf("unknown notification kind: %q", msg.Kind)
	}

	if s.isDev {
		slog.Info("email sent (dev mode)", "kind", msg.Kind, "to", msg.To, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{msg.To},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	return err
}

func (s *EmailSender) verifyURL(msg Message) string {
	return fmt.Sprintf("%s/verify-account?user=%s&code-token=%s", s.frontendURL, msg.To, msg.CodeToken)
}

func (s *EmailSender) resetURL(msg Message) string {
	return fmt.Sprintf("%s/forget-password?user=%s&code-token=%s", s.frontendURL, msg.To, msg.CodeToken)
}
