// Package models содержит доменные модели приложения: пользователя
// и купленную акцию в портфеле. Структуры используются в бизнес‑логике,
// хранилище и шаблонах.
package models

import "time"

// User представляет зарегистрированного пользователя.
type User struct {
	ID                      int64      // Идентификатор пользователя
	Email                   string     // Электронная почта (уникальная)
	PasswordHash            string     // bcrypt-хеш пароля
	RegisteredOn            time.Time  // Дата регистрации
	EmailConfirmationSentOn *time.Time // Когда отправлено письмо подтверждения
	EmailConfirmed          bool       // Подтверждён ли адрес
	EmailConfirmedOn        *time.Time // Когда адрес подтверждён
}
