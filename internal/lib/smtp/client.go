// Package smtp предоставляет транспорт для отправки писем через SMTP.
package smtp

import (
	"bytes"
	"io"
	"mime"
)

// Client команды SMTP-сессии, нужные для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer открывает SMTP-сессию.
type Dialer interface {
	Connect() (Client, error)
}

// HTMLMessage собирает письмо с HTML-телом. Тема кодируется по RFC 2047,
// чтобы не-ASCII символы не ломали заголовок.
func HTMLMessage(from, to, subject, html string) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return b.Bytes()
}
