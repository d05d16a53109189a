package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
)

type VerificationEmail struct {
	To        string
	FirstName string
	Token     string
	OTP       string
	ExpiresIn time.Duration
}

type EmailSender interface {
	SendVerificationEmail(ctx context.Context, msg VerificationEmail) error
}

// DevEmailSender logs the challenge instead of delivering it. Default driver
// for development and tests.
type DevEmailSender struct {
	logger *slog.Logger
}

func NewDevEmailSender(logger *slog.Logger) *DevEmailSender {
	return &DevEmailSender{logger: logger}
}

func (s *DevEmailSender) SendVerificationEmail(ctx context.Context, msg VerificationEmail) error {
	s.logger.InfoContext(ctx, "verification email (dev driver)",
		"to", msg.To,
		"token", msg.Token,
		"otp", msg.OTP,
		"expires_in", msg.ExpiresIn,
	)
	return nil
}

type SMTPEmailSender struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	senderName string
}

func NewSMTPEmailSender(host string, port int, username, password, from, senderName string) *SMTPEmailSender {
	return &SMTPEmailSender{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		from:       from,
		senderName: senderName,
	}
}

func (s *SMTPEmailSender) SendVerificationEmail(_ context.Context, msg VerificationEmail) error {
	from := s.from
	if s.senderName != "" {
		from = fmt.Sprintf("%s <%s>", s.senderName, s.from)
	}

	minutes := int(msg.ExpiresIn.Minutes())
	body := fmt.Sprintf(
		"Welcome to CareFleet!\r\n\r\n"+
			"Please verify your email by using the following OTP: %s\r\n\r\n"+
			"This OTP will expire in %d minutes.\r\n\r\n"+
			"If you didn't create an account with CareFleet, please ignore this email.\r\n\r\n"+
			"Best regards,\r\nCareFleet Team\r\n",
		msg.OTP, minutes,
	)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: CareFleet - Email Verification\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	if err := smtp.SendMail(addr, auth, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
