// Package admin реализует закрытую страницу администратора.
// Интерфейса администратора нет, любой запрос получает 403.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
)

// Renderer рендерит страницы ошибок.
type Renderer interface {
	Error(w http.ResponseWriter, r *http.Request, status int)
}

// Handler отвечает страницей 403.
type Handler struct {
	log    *slog.Logger
	render Renderer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, render Renderer) *Handler {
	return &Handler{log: log, render: render}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Warn("forbidden admin page requested",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("remote_addr", r.RemoteAddr))
	h.render.Error(w, r, http.StatusForbidden)
}
