// Package login реализует HTTP-обработчик входа пользователя.
//
// Параметр next принимается только как внутренний путь сайта. Внешний адрес
// в next отклоняется ответом 400 без создания сессии.
package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/stonks/internal/forms"
	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/metrics"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/models"
	"github.com/magabrotheeeer/stonks/internal/services/auth"
)

// Flash-сообщения страницы входа.
const (
	AlreadyLoggedInMessage    = "You are already logged in!"
	InvalidCredentialsMessage = "ERROR! Incorrect login credentials."
)

// FormData значения полей формы для повторного показа.
type FormData struct {
	Email string
	Next  string
}

// Service описывает интерфейс проверки учетных данных.
type Service interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// Sessions записывает пользователя в cookie сессии.
type Sessions interface {
	Login(w http.ResponseWriter, r *http.Request, userID int64, remember bool) error
}

// Renderer рендерит HTML-страницы и flash-сообщения.
type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, page string, data any)
	Error(w http.ResponseWriter, r *http.Request, status int)
	Flash(w http.ResponseWriter, r *http.Request, category, message string)
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	render   Renderer
	metrics  *metrics.Metrics
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions Sessions, render Renderer, m *metrics.Metrics) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		render:   render,
		metrics:  m,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if current := web.CurrentUser(r.Context()); current != nil {
		log.Info("duplicate login attempt", slog.String("email", current.Email))
		h.render.Flash(w, r, web.FlashInfo, AlreadyLoggedInMessage)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	next := r.URL.Query().Get("next")
	if r.Method != http.MethodPost {
		h.render.HTML(w, r, http.StatusOK, web.PageLogin, FormData{Next: next})
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render.Error(w, r, http.StatusBadRequest)
		return
	}
	data := FormData{Email: r.PostForm.Get("email"), Next: next}

	form, err := forms.ParseLogin(data.Email, r.PostForm.Get("password"), r.PostForm.Get("remember_me"))
	if err != nil {
		h.fail(w, r, log, data, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error("failed to authenticate", sl.Err(err))
			h.render.Error(w, r, http.StatusInternalServerError)
			return
		}
		h.fail(w, r, log, data, err)
		return
	}

	if !IsSafeNext(next) {
		h.metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		log.Warn("invalid next path in login request", slog.String("next", next))
		h.render.Error(w, r, http.StatusBadRequest)
		return
	}

	if err := h.sessions.Login(w, r, user.ID, form.RememberMe); err != nil {
		log.Error("failed to save session", sl.Err(err))
		h.render.Error(w, r, http.StatusInternalServerError)
		return
	}
	h.metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info("logged in user", slog.String("email", user.Email), slog.Bool("remember", form.RememberMe))

	h.render.Flash(w, r, web.FlashSuccess, fmt.Sprintf("Welcome, %s!", user.Email))
	if next == "" {
		next = "/users/profile"
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, data FormData, err error) {
	h.metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
	log.Info("login failed", slog.String("email", data.Email), sl.Err(err))
	h.render.Flash(w, r, web.FlashError, InvalidCredentialsMessage)
	h.render.HTML(w, r, http.StatusOK, web.PageLogin, data)
}

// IsSafeNext сообщает, что next пуст или является путем внутри сайта:
// без схемы и хоста, начинается с одного "/" и не начинается с "//" или "/\".
func IsSafeNext(next string) bool {
	if next == "" {
		return true
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return false
	}
	u, err := url.Parse(next)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
