// Package middlewarectx содержит HTTP middleware для сессий и доступа к страницам.
//
// LoadUser читает ID пользователя из cookie сессии, загружает пользователя
// и кладет его в контекст запроса. RequireLogin пропускает только
// авторизованных пользователей, остальных перенаправляет на страницу входа
// с параметром next.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/models"
	"github.com/magabrotheeeer/stonks/internal/storage"
)

// LoginMessage flash-сообщение для неавторизованного доступа.
const LoginMessage = "Please log in to access this page."

// SessionReader возвращает ID пользователя из cookie.
type SessionReader interface {
	UserID(r *http.Request) (int64, bool)
}

// UserService загружает пользователя по ID.
type UserService interface {
	User(ctx context.Context, id int64) (*models.User, error)
}

// Flasher добавляет flash-сообщение в сессию.
type Flasher interface {
	Flash(w http.ResponseWriter, r *http.Request, category, message string)
}

// LoadUser возвращает middleware, который кладет текущего пользователя в контекст.
// Cookie удаленного пользователя игнорируется, запрос продолжается анонимно.
func LoadUser(log *slog.Logger, sessions SessionReader, users UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.LoadUser"
			id, ok := sessions.UserID(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.User(r.Context(), id)
			if err != nil {
				if !errors.Is(err, storage.ErrUserNotFound) {
					log.Error("failed to load user",
						slog.String("op", op),
						slog.String("request_id", middleware.GetReqID(r.Context())),
						slog.Int64("user_id", id),
						sl.Err(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(web.WithUser(r.Context(), user)))
		})
	}
}

// RequireLogin возвращает middleware, который перенаправляет анонимных
// пользователей на /users/login?next=<запрошенный путь>.
func RequireLogin(log *slog.Logger, flasher Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireLogin"
			if web.CurrentUser(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			log.Info("unauthorized access, redirecting to login",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("path", r.URL.Path))
			flasher.Flash(w, r, web.FlashInfo, LoginMessage)
			http.Redirect(w, r, "/users/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
		})
	}
}
