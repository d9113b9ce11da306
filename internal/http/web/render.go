package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/csrf"

	"github.com/magabrotheeeer/stonks/internal/lib/price"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/models"
)

//go:embed templates
var templatesFS embed.FS

// Имена страниц, доступных для рендеринга.
const (
	PageIndex       = "index.html"
	PageAbout       = "about.html"
	PageStocksList  = "stocks/list.html"
	PageStocksAdd   = "stocks/add.html"
	PageRegister    = "users/register.html"
	PageLogin       = "users/login.html"
	PageProfile     = "users/profile.html"
	PageBadRequest  = "errors/400.html"
	PageForbidden   = "errors/403.html"
	PageNotFound    = "errors/404.html"
	PageNotAllowed  = "errors/405.html"
	PageTooMany     = "errors/429.html"
	PageServerError = "errors/500.html"
)

const (
	layoutTemplate = "base.html"
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// View данные, передаваемые в каждый шаблон.
type View struct {
	User      *models.User
	Flashes   []Flash
	CSRFField template.HTML
	Path      string
	Data      any
}

// Renderer рендерит страницы из встроенных шаблонов.
// Перед записью ответа забирает flash-сообщения из сессии.
type Renderer struct {
	pages    map[string]*template.Template
	sessions *Sessions
	log      *slog.Logger
}

// NewRenderer разбирает все шаблоны страниц поверх общего макета.
func NewRenderer(sessions *Sessions, currency string, log *slog.Logger) (*Renderer, error) {
	const op = "web.NewRenderer"
	funcs := template.FuncMap{
		"money":    func(cents int64) string { return price.Format(cents, currency) },
		"decimal":  price.Decimal,
		"date":     formatDate,
		"datetime": formatDateTime,
	}

	pageNames, err := fs.Glob(templatesFS, "templates/*/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pageNames = append(pageNames, "templates/"+PageIndex, "templates/"+PageAbout)

	pages := make(map[string]*template.Template, len(pageNames))
	for _, path := range pageNames {
		tmpl, err := template.New(layoutTemplate).Funcs(funcs).ParseFS(templatesFS, "templates/"+layoutTemplate, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, path, err)
		}
		pages[path[len("templates/"):]] = tmpl
	}
	return &Renderer{pages: pages, sessions: sessions, log: log}, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// HTML рендерит страницу page со статусом status.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	const op = "web.Renderer.HTML"
	log := rd.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("page", page),
	)

	tmpl, ok := rd.pages[page]
	if !ok {
		log.Error("unknown page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	flashes, err := rd.sessions.PopFlashes(w, r)
	if err != nil {
		log.Error("failed to pop flashes", sl.Err(err))
	}

	view := View{
		User:      CurrentUser(r.Context()),
		Flashes:   flashes,
		CSRFField: csrf.TemplateField(r),
		Path:      r.URL.Path,
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, view); err != nil {
		log.Error("failed to execute template", sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	render.Status(r, status)
	render.HTML(w, r, buf.String())
}

// Error рендерит страницу ошибки для статуса status.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int) {
	page := PageServerError
	switch status {
	case http.StatusBadRequest:
		page = PageBadRequest
	case http.StatusForbidden:
		page = PageForbidden
	case http.StatusNotFound:
		page = PageNotFound
	case http.StatusMethodNotAllowed:
		page = PageNotAllowed
	case http.StatusTooManyRequests:
		page = PageTooMany
	}
	rd.HTML(w, r, status, page, nil)
}

// Flash добавляет flash-сообщение, ошибки сохранения только логируются.
func (rd *Renderer) Flash(w http.ResponseWriter, r *http.Request, category, message string) {
	if err := rd.sessions.AddFlash(w, r, category, message); err != nil {
		rd.log.Error("failed to save flash", slog.String("request_id", middleware.GetReqID(r.Context())), sl.Err(err))
	}
}
