package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/reminderly/reminders-api/internal/model"
)

// Mailer delivers account mail. Delivery failure never fails the operation
// that triggered it; callers log and move on.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, purpose model.OTPPurpose) error
	SendWelcome(ctx context.Context, to, name string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string, purpose model.OTPPurpose) error {
	subject := "Password Reset - Reminders"
	intro := "You have requested to reset your password. Use the code below to continue."
	if purpose == model.OTPPurposeRegistration {
		subject = "Account Registration Confirmation - Reminders"
		intro = "Thank you for registering. Use the code below to confirm your account."
	}

	body := fmt.Sprintf(
		"%s\r\n\r\nYour verification code: %s\r\n\r\nThis code is valid for 10 minutes. Do not share it with anyone.\r\nIf you did not request this action, ignore this email.\r\n",
		intro, code,
	)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(
		"Welcome %s!\r\n\r\nYour account has been confirmed. You can now start managing your tasks and lists.\r\n",
		name,
	)
	return m.send(to, "Welcome to Reminders!", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)

// LogMailer stands in when no SMTP relay is configured. It logs the code so
// local setups can complete registration without one. Not for production.
type LogMailer struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendOTP(ctx context.Context, to, code string, purpose model.OTPPurpose) error {
	m.logger.Info("mail disabled, logging otp", "to", to, "purpose", string(purpose), "code", code)
	return nil
}

func (m *LogMailer) SendWelcome(ctx context.Context, to, name string) error {
	m.logger.Info("mail disabled, skipping welcome mail", "to", to)
	return nil
}

var _ Mailer = (*LogMailer)(nil)
