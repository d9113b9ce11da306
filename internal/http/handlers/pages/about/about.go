// Package about реализует HTTP-обработчик страницы "О сайте".
// Текст страницы хранится в markdown и преобразуется в HTML один раз при создании обработчика.
package about

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/yuin/goldmark"

	"github.com/magabrotheeeer/stonks/internal/http/web"
)

//go:embed about.md
var aboutMarkdown []byte

// WelcomeMessage flash-сообщение страницы "О сайте".
const WelcomeMessage = "Thanks for learning about this site!"

// Renderer рендерит HTML-страницы и flash-сообщения.
type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, page string, data any)
	Flash(w http.ResponseWriter, r *http.Request, category, message string)
}

// Handler обрабатывает запросы к странице "О сайте".
type Handler struct {
	log    *slog.Logger
	render Renderer
	body   template.HTML
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, render Renderer) (*Handler, error) {
	const op = "handlers.pages.about.New"
	var buf bytes.Buffer
	if err := goldmark.Convert(aboutMarkdown, &buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Handler{
		log:    log,
		render: render,
		// goldmark без WithUnsafe экранирует сырой HTML из markdown
		body: template.HTML(buf.String()),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pages.about"
	h.log.Debug("rendering about page",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())))
	h.render.Flash(w, r, web.FlashInfo, WelcomeMessage)
	h.render.HTML(w, r, http.StatusOK, web.PageAbout, h.body)
}
