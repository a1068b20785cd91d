package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/expenspend/expenspend-api/internal/core/ports"
)

// Config captures the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender renders and delivers the transactional emails the auth flows
// depend on. Transport failures are returned to the caller; retry policy
// belongs to whoever enqueued the message.
type SMTPSender struct {
	cfg Config
}

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendEmail(_ context.Context, msg ports.EmailMessage) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&sb, "To: %s\r\n", msg.To)
	fmt.Fprintf(&sb, "Subject: %s\r\n", msg.Subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.HTMLBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, []byte(sb.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) CreateEmailValidationMessage(email, confirmationLink string) ports.EmailMessage {
	return ports.EmailMessage{
		To:       email,
		Subject:  "Confirm your ExpenSpend account",
		HTMLBody: renderConfirmation(confirmationLink),
	}
}

func (s *SMTPSender) CreatePasswordResetMessage(email, resetLink string) ports.EmailMessage {
	return ports.EmailMessage{
		To:       email,
		Subject:  "Reset your ExpenSpend password",
		HTMLBody: renderPasswordReset(resetLink),
	}
}

func (s *SMTPSender) CreatePasswordChangeNotification(email, firstName string) ports.EmailMessage {
	return ports.EmailMessage{
		To:       email,
		Subject:  "Your ExpenSpend password was changed",
		HTMLBody: renderPasswordChanged(firstName),
	}
}

func (s *SMTPSender) ConfirmationPageTemplate() string {
	return confirmationPageHTML
}
