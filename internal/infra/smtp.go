package infra

import (
	"fmt"
	"net/smtp"

	"bizzops/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendInvoice emails the invoice PDF to the customer.
func (m *Mailer) SendInvoice(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
