// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
)

// GoodbyeMessage flash-сообщение после выхода.
const GoodbyeMessage = "Goodbye!"

// Sessions очищает cookie сессии и входа.
type Sessions interface {
	Logout(w http.ResponseWriter, r *http.Request) error
}

// Renderer рендерит страницы ошибок и flash-сообщения.
type Renderer interface {
	Error(w http.ResponseWriter, r *http.Request, status int)
	Flash(w http.ResponseWriter, r *http.Request, category, message string)
}

// Handler обрабатывает выход пользователя.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	render   Renderer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions, render Renderer) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		render:   render,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.sessions.Logout(w, r); err != nil {
		log.Error("failed to clear session", sl.Err(err))
		h.render.Error(w, r, http.StatusInternalServerError)
		return
	}
	if user := web.CurrentUser(r.Context()); user != nil {
		log.Info("logged out user", slog.String("email", user.Email))
	}

	h.render.Flash(w, r, web.FlashInfo, GoodbyeMessage)
	http.Redirect(w, r, "/", http.StatusFound)
}
