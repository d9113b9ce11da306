package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/lib/smtp"
)

// SMTPSender отправляет письма напрямую через SMTP транспорт.
type SMTPSender struct {
	transport smtp.Dialer
	from      string
	log       *slog.Logger
}

// NewSMTPSender создает новый экземпляр SMTPSender.
func NewSMTPSender(transport smtp.Dialer, from string, log *slog.Logger) *SMTPSender {
	return &SMTPSender{
		transport: transport,
		from:      from,
		log:       log,
	}
}

// Send отправляет письмо msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	const op = "mail.SMTPSender.Send"
	log := s.log.With(slog.String("op", op), slog.String("message_id", msg.ID))

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	body := smtp.HTMLMessage(s.from, msg.To, msg.Subject, msg.HTML)

	client, err := s.transport.Connect()
	if err != nil {
		log.Error("failed to connect to SMTP server", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Debug("failed to close SMTP client", sl.Err(err))
		}
	}()

	if err := client.Mail(s.from); err != nil {
		log.Error("failed to set MAIL FROM", slog.String("from", s.from), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		log.Error("failed to set RCPT TO", slog.String("recipient", msg.To), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	wc, err := client.Data()
	if err != nil {
		log.Error("failed to get Data writer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = wc.Write(body); err != nil {
		log.Error("failed to write email body", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = wc.Close(); err != nil {
		log.Error("failed to close Data writer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Quit(); err != nil {
		log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email sent successfully", slog.String("to", msg.To))
	return nil
}
