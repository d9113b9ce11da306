package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/stonks/internal/lib/sl"
)

const sendTimeout = 30 * time.Second

// Dispatcher отправляет письма в фоновых горутинах.
// Wait дожидается завершения всех начатых отправок.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger
	wg     sync.WaitGroup
	onSent func(Message, error)
}

// NewDispatcher создает новый экземпляр Dispatcher.
func NewDispatcher(sender Sender, log *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log}
}

// OnSent задает функцию, вызываемую после каждой попытки отправки.
func (d *Dispatcher) OnSent(fn func(Message, error)) {
	d.onSent = fn
}

// Dispatch запускает отправку msg и сразу возвращает управление.
// Отправка не привязана к контексту запроса, который завершится раньше.
func (d *Dispatcher) Dispatch(msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		err := d.sender.Send(ctx, msg)
		if err != nil {
			d.log.Error("failed to send email",
				slog.String("message_id", msg.ID),
				slog.String("to", msg.To),
				sl.Err(err))
		}
		if d.onSent != nil {
			d.onSent(msg, err)
		}
	}()
}

// Wait блокируется до завершения всех отправок.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
