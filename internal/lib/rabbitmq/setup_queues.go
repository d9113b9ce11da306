package rabbitmq

// MailExchange — exchange для писем.
const MailExchange = "mail"

// QueueConfig описывает очередь и ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// ConfirmationQueue — очередь писем подтверждения email.
var ConfirmationQueue = QueueConfig{QueueName: "mail.confirmation", RoutingKey: "confirmation"}

// MailQueues возвращает очереди, обслуживаемые воркером писем.
func MailQueues() []QueueConfig {
	return []QueueConfig{ConfirmationQueue}
}
