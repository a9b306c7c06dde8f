package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/pkg/config"
)

var _ restock.Mailer = (*GomailSender)(nil)

// GomailSender envía las alertas de restock por SMTP (HTML).
type GomailSender struct {
	cfg config.SMTPConfig
}

// NewGomailSender construye el sender con la configuración SMTP.
func NewGomailSender(cfg config.SMTPConfig) *GomailSender {
	return &GomailSender{cfg: cfg}
}

// Send envía un correo HTML. Respeta la cancelación del contexto antes de
// abrir la conexión SMTP.
func (s *GomailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("SMTP no configurado (SMTP_HOST vacío)")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}
