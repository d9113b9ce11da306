// Package profile реализует HTTP-обработчик страницы профиля.
package profile

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/stonks/internal/http/web"
)

// Renderer рендерит HTML-страницы.
type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, page string, data any)
}

// Handler показывает email, дату регистрации и статус подтверждения.
type Handler struct {
	log    *slog.Logger
	render Renderer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, render Renderer) *Handler {
	return &Handler{log: log, render: render}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, web.PageProfile, nil)
}
