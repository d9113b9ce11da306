// Package add реализует HTTP-обработчик формы добавления акции.
//
// GET показывает пустую форму. POST разбирает поля stock_symbol,
// number_of_shares и purchase_price, при ошибке повторно показывает форму
// с flash-сообщением, при успехе сохраняет акцию и перенаправляет на /stocks/.
package add

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/stonks/internal/forms"
	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/metrics"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/models"
)

// FormData значения полей формы для повторного показа.
type FormData struct {
	Symbol         string
	NumberOfShares string
	PurchasePrice  string
}

// Service сохраняет акции пользователя.
type Service interface {
	Add(ctx context.Context, userID int64, stock models.Stock) (int64, error)
}

// Renderer рендерит HTML-страницы и flash-сообщения.
type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, page string, data any)
	Error(w http.ResponseWriter, r *http.Request, status int)
	Flash(w http.ResponseWriter, r *http.Request, category, message string)
}

// Handler обрабатывает форму добавления акции.
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
	const op = "handlers.stocks.add"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		h.render.HTML(w, r, http.StatusOK, web.PageStocksAdd, FormData{})
		return
	}

	user := web.CurrentUser(r.Context())
	if user == nil {
		http.Redirect(w, r, "/users/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render.Error(w, r, http.StatusBadRequest)
		return
	}
	data := FormData{
		Symbol:         r.PostForm.Get("stock_symbol"),
		NumberOfShares: r.PostForm.Get("number_of_shares"),
		PurchasePrice:  r.PostForm.Get("purchase_price"),
	}

	stock, err := forms.ParseStock(data.Symbol, data.NumberOfShares, data.PurchasePrice)
	if err != nil {
		log.Info("stock form validation failed", sl.Err(err))
		h.render.Flash(w, r, web.FlashError, "ERROR! "+err.Error())
		h.render.HTML(w, r, http.StatusOK, web.PageStocksAdd, data)
		return
	}

	if _, err := h.service.Add(r.Context(), user.ID, stock); err != nil {
		log.Error("failed to add stock", sl.Err(err))
		h.render.Error(w, r, http.StatusInternalServerError)
		return
	}
	h.metrics.StocksAdded.Inc()
	log.Info("added new stock", slog.String("symbol", stock.Symbol), slog.Int64("user_id", user.ID))

	h.render.Flash(w, r, web.FlashSuccess, fmt.Sprintf("Added new stock (%s)!", stock.Symbol))
	http.Redirect(w, r, "/stocks/", http.StatusFound)
}
