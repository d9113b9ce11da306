package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/stonks/internal/lib/sl"
)

// ErrPermanent помечает ошибку, после которой повторная доставка бесполезна.
// Такое сообщение отклоняется без возврата в очередь.
var ErrPermanent = errors.New("permanent failure")

// Handler обрабатывает тело сообщения. Ошибка возвращает сообщение в очередь,
// если она не оборачивает ErrPermanent.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage запускает потребителя очереди queueName.
//
// Возвращённый канал закрывается, когда потребитель остановлен и все
// обработчики завершились.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, workers int, log *slog.Logger, handler Handler) (<-chan struct{}, error) {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		Consume(ctx, delivery, workers, log, handler)
	}()
	return done, nil
}

// Consume читает доставки до закрытия канала или отмены ctx,
// обрабатывая не более workers сообщений одновременно.
func Consume(ctx context.Context, deliveries <-chan amqp.Delivery, workers int, log *slog.Logger, handler Handler) {
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				waitAll(sem)
				return
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handle(ctx, d, log, handler)
			}(d)
		case <-ctx.Done():
			waitAll(sem)
			return
		}
	}
}

func handle(ctx context.Context, d amqp.Delivery, log *slog.Logger, handler Handler) {
	log = log.With(slog.String("message_id", d.MessageId))
	if err := handler(ctx, d.Body); err != nil {
		requeue := !errors.Is(err, ErrPermanent)
		log.Error("failed to handle message", slog.Bool("requeue", requeue), sl.Err(err))
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}

// waitAll ждёт освобождения всех слотов семафора.
func waitAll(sem chan struct{}) {
	for range cap(sem) {
		sem <- struct{}{}
	}
}
