package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/config"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/observability"
)

// ErrMailDelivery marks a failed outbound mail. The record change that
// triggered the mail is never rolled back on this error.
var ErrMailDelivery = errors.New("mail delivery failed")

type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string, validFor time.Duration) error
	SendWelcome(ctx context.Context, to, name string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
		logger: logger,
	}
}

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, name, code string, validFor time.Duration) error {
	body := fmt.Sprintf(
		`<p>Hi <strong>%s</strong>,</p>
<p>Thank you for signing up! To complete your registration, enter the one-time code below:</p>
<div style="font-size:24px;letter-spacing:4px;font-weight:bold">%s</div>
<p>This code expires in %d minutes. If you did not request it, ignore this email.</p>`,
		name, code, int(validFor.Minutes()),
	)
	return m.send(ctx, "verification", to, "One-Time Password for Email Verification", body)
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(
		`<h2>Welcome %s!</h2>
<p>Your email has been successfully verified.</p>
<p>You can now access all features of the platform.</p>`,
		name,
	)
	return m.send(ctx, "welcome", to, "Welcome to StatusUp!", body)
}

func (m *SMTPMailer) send(ctx context.Context, kind, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		observability.RecordMailSend(kind, "error")
		m.logger.ErrorContext(ctx, "mail send failed", "kind", kind, "to", to, "error", err.Error())
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	observability.RecordMailSend(kind, "success")
	m.logger.InfoContext(ctx, "mail sent", "kind", kind, "to", to)
	return nil
}

// DevMailer logs codes instead of delivering them. Useful when no SMTP
// account is reachable from a development machine.
type DevMailer struct {
	logger *slog.Logger
}

func NewDevMailer(logger *slog.Logger) *DevMailer {
	return &DevMailer{logger: logger}
}

func (m *DevMailer) SendVerificationCode(ctx context.Context, to, name, code string, validFor time.Duration) error {
	m.logger.InfoContext(ctx, "verification code issued", "to", to, "name", name, "code", code, "valid_for", validFor)
	return nil
}

func (m *DevMailer) SendWelcome(ctx context.Context, to, name string) error {
	m.logger.InfoContext(ctx, "welcome mail suppressed in dev mode", "to", to, "name", name)
	return nil
}
