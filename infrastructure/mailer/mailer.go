package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/conversion-audit/internal/config"
	"github.com/vfg2006/conversion-audit/internal/domain"
	"gopkg.in/gomail.v2"
)

// Dialer é satisfeita por *gomail.Dialer
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envia as notificações da auditoria por SMTP
type SMTPMailer struct {
	from   string
	dialer Dialer
}

func New(cfg config.Email) *SMTPMailer {
	return NewWithDialer(cfg.From, gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword))
}

func NewWithDialer(from string, dialer Dialer) *SMTPMailer {
	return &SMTPMailer{
		from:   from,
		dialer: dialer,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, notification domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	recipients := splitRecipients(notification.To)
	if len(recipients) == 0 {
		return fmt.Errorf("mailer: destinatário não informado")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", notification.Subject)

	if notification.HTMLBody != "" {
		msg.SetBody("text/html", notification.HTMLBody)
	} else {
		msg.SetBody("text/plain", notification.TextBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: erro ao enviar e-mail: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"to":      notification.To,
		"subject": notification.Subject,
	}).Info("E-mail enviado")

	return nil
}

// splitRecipients aceita uma lista separada por vírgulas
func splitRecipients(to string) []string {
	recipients := make([]string, 0)
	for _, r := range strings.Split(to, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	return recipients
}
