// Package register реализует HTTP-обработчик регистрации пользователя.
//
// После успешной регистрации пользователю отправляется письмо со ссылкой
// подтверждения, а браузер перенаправляется на страницу входа.
package register

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/stonks/internal/forms"
	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/metrics"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/models"
	"github.com/magabrotheeeer/stonks/internal/storage"
)

// InvalidDataMessage flash-сообщение для неверной формы и занятого email.
const InvalidDataMessage = "ERROR! Invalid data was used for registration."

// FormData значения полей формы для повторного показа.
type FormData struct {
	Email string
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
}

// Renderer рендерит HTML-страницы и flash-сообщения.
type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, page string, data any)
	Error(w http.ResponseWriter, r *http.Request, status int)
	Flash(w http.ResponseWriter, r *http.Request, category, message string)
}

// Handler обрабатывает HTTP-запросы для регистрации.
type Handler struct {
	log     *slog.Logger
	service Service
	render  Renderer
	metrics *metrics.Metrics
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, render Renderer, m *metrics.Metrics) *Handler {
	return &Handler{
		log:     log,
		service: service,
		render:  render,
		metrics: m,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		h.render.HTML(w, r, http.StatusOK, web.PageRegister, FormData{})
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render.Error(w, r, http.StatusBadRequest)
		return
	}
	data := FormData{Email: r.PostForm.Get("email")}

	form, err := forms.ParseRegister(data.Email, r.PostForm.Get("password"))
	if err != nil {
		log.Info("registration form validation failed", sl.Err(err))
		h.render.Flash(w, r, web.FlashError, InvalidDataMessage)
		h.render.HTML(w, r, http.StatusOK, web.PageRegister, data)
		return
	}

	user, err := h.service.Register(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Info("registration with existing email", slog.String("email", form.Email))
			h.render.Flash(w, r, web.FlashError, InvalidDataMessage)
			h.render.HTML(w, r, http.StatusOK, web.PageRegister, data)
			return
		}
		log.Error("failed to register user", sl.Err(err))
		h.render.Error(w, r, http.StatusInternalServerError)
		return
	}
	h.metrics.Registrations.Inc()
	log.Info("registered new user", slog.String("email", user.Email), slog.Int64("user_id", user.ID))

	h.render.Flash(w, r, web.FlashSuccess,
		fmt.Sprintf("Thanks for registering, %s! Please check your email to confirm your email address.", user.Email))
	http.Redirect(w, r, "/users/login", http.StatusFound)
}
