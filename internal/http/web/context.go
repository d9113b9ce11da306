package web

import (
	"context"

	"github.com/magabrotheeeer/stonks/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// CurrentUserKey ключ для авторизованного пользователя в контексте.
const CurrentUserKey Key = "current_user"

// WithUser кладет пользователя в контекст.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, CurrentUserKey, user)
}

// CurrentUser возвращает авторизованного пользователя или nil.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(CurrentUserKey).(*models.User)
	return user
}
