// Package mail формирует и доставляет письма подтверждения адреса.
//
// Письмо можно отправить напрямую через SMTP (Sender) или положить в очередь
// RabbitMQ (QueuePublisher), откуда его заберет воркер cmd/mailer.
// Dispatcher выполняет отправку в фоне, не блокируя обработчик запроса.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
)

// ConfirmationSubject тема письма подтверждения.
const ConfirmationSubject = "Stonks - Confirm Your Email Address"

//go:embed templates/*.html
var templatesFS embed.FS

var confirmationTmpl = template.Must(template.ParseFS(templatesFS, "templates/confirmation.html"))

// Message письмо, передаваемое отправителю или в очередь.
type Message struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender отправляет письмо.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewConfirmation собирает письмо со ссылкой подтверждения.
func NewConfirmation(to, confirmURL string, validFor time.Duration) (Message, error) {
	const op = "mail.NewConfirmation"
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, struct {
		ConfirmURL string
		ValidFor   string
	}{
		ConfirmURL: confirmURL,
		ValidFor:   validFor.String(),
	})
	if err != nil {
		return Message{}, fmt.Errorf("%s: %w", op, err)
	}
	return Message{
		ID:      uuid.NewString(),
		To:      to,
		Subject: ConfirmationSubject,
		HTML:    buf.String(),
	}, nil
}
