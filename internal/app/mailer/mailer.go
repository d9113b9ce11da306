// Package mailer собирает воркер, который забирает письма из очереди и отправляет их по SMTP.
package mailer

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/stonks/internal/config"
	"github.com/magabrotheeeer/stonks/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/lib/smtp"
	"github.com/magabrotheeeer/stonks/internal/services/mail"
)

// App держит соединение с RabbitMQ и обработчик писем воркера.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	handler rabbitmq.Handler
	workers int
	logger  *slog.Logger
}

// New подключается к RabbitMQ, объявляет очереди писем и собирает SMTP отправителя.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.MailExchange, rabbitmq.MailQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	sender := mail.NewSMTPSender(transport, cfg.Mail.From, logger)

	return &App{
		conn:    conn,
		ch:      ch,
		handler: mail.NewWorkerHandler(sender),
		workers: cfg.Mail.Workers,
		logger:  logger,
	}, nil
}

// Run запускает воркеры очереди подтверждений и блокируется до отмены ctx.
// Соединение с брокером закрывается при выходе.
func (a *App) Run(ctx context.Context) error {
	done, err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.ConfirmationQueue.QueueName, a.workers, a.logger, a.handler)
	if err != nil {
		a.logger.Error("failed to start confirmation queue consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("mailer shutting down gracefully")
	<-done

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
