// Package list реализует HTTP-обработчик страницы портфеля пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/models"
)

// Service возвращает акции пользователя.
type Service interface {
	List(ctx context.Context, userID int64) ([]models.Stock, error)
}

// Renderer рендерит HTML-страницы.
type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, page string, data any)
	Error(w http.ResponseWriter, r *http.Request, status int)
}

// Handler обрабатывает запросы к списку акций.
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
	const op = "handlers.stocks.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user := web.CurrentUser(r.Context())
	if user == nil {
		http.Redirect(w, r, "/users/login", http.StatusFound)
		return
	}

	stocks, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list stocks", slog.Int64("user_id", user.ID), sl.Err(err))
		h.render.Error(w, r, http.StatusInternalServerError)
		return
	}
	log.Debug("stocks listed", slog.Int("count", len(stocks)))
	h.render.HTML(w, r, http.StatusOK, web.PageStocksList, stocks)
}
