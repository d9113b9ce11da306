// Package confirm реализует HTTP-обработчик ссылки подтверждения email.
package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/models"
	"github.com/magabrotheeeer/stonks/internal/services/auth"
)

// Flash-сообщения подтверждения.
const (
	InvalidLinkMessage      = "The confirmation link is invalid or has expired."
	AlreadyConfirmedMessage = "Account already confirmed. Please login."
	ConfirmedMessage        = "Thank you for confirming your email address!"
)

// Service подтверждает адрес по токену.
type Service interface {
	Confirm(ctx context.Context, token string) (*models.User, bool, error)
}

// Renderer рендерит страницы ошибок и flash-сообщения.
type Renderer interface {
	Error(w http.ResponseWriter, r *http.Request, status int)
	Flash(w http.ResponseWriter, r *http.Request, category, message string)
}

// Handler обрабатывает переход по ссылке из письма.
type Handler struct {
	log     *slog.Logger
	service Service
	render  Renderer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, render Renderer) *Handler {
	return &Handler{
		log:     log,
		service: service,
		render:  render,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, alreadyConfirmed, err := h.service.Confirm(r.Context(), chi.URLParam(r, "token"))
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		log.Info("invalid or expired confirmation link", slog.String("remote_addr", r.RemoteAddr), sl.Err(err))
		h.render.Flash(w, r, web.FlashError, InvalidLinkMessage)
		http.Redirect(w, r, "/users/login", http.StatusFound)
		return
	case err != nil:
		log.Error("failed to confirm email", sl.Err(err))
		h.render.Error(w, r, http.StatusInternalServerError)
		return
	case alreadyConfirmed:
		log.Info("confirmation link received for a confirmed user", slog.String("email", user.Email))
		h.render.Flash(w, r, web.FlashInfo, AlreadyConfirmedMessage)
	default:
		log.Info("email address confirmed", slog.String("email", user.Email))
		h.render.Flash(w, r, web.FlashSuccess, ConfirmedMessage)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
