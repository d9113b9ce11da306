package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/stonks/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
)

// QueuePublisher кладет письма в очередь RabbitMQ вместо прямой отправки.
type QueuePublisher struct {
	ch  rabbitmq.Channel
	log *slog.Logger
}

// NewQueuePublisher создает новый экземпляр QueuePublisher.
func NewQueuePublisher(ch rabbitmq.Channel, log *slog.Logger) *QueuePublisher {
	return &QueuePublisher{ch: ch, log: log}
}

// Send публикует письмо в exchange mail с ключом confirmation.
func (p *QueuePublisher) Send(ctx context.Context, msg Message) error {
	const op = "mail.QueuePublisher.Send"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := rabbitmq.PublishMessage(p.ch, rabbitmq.MailExchange, rabbitmq.ConfirmationQueue.RoutingKey, msg.ID, msg)
	if err != nil {
		p.log.Error("failed to publish email", slog.String("op", op), slog.String("message_id", msg.ID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	p.log.Debug("email queued", slog.String("op", op), slog.String("message_id", msg.ID))
	return nil
}

// NewWorkerHandler возвращает обработчик сообщений очереди, отправляющий письма через sender.
func NewWorkerHandler(sender Sender) rabbitmq.Handler {
	return func(ctx context.Context, body []byte) error {
		const op = "mail.WorkerHandler"
		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("%s: error unmarshalling message: %w: %w", op, rabbitmq.ErrPermanent, err)
		}
		if msg.To == "" {
			return fmt.Errorf("%s: message %s has no recipient: %w", op, msg.ID, rabbitmq.ErrPermanent)
		}
		if err := sender.Send(ctx, msg); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
}
