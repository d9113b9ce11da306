// Package stonks собирает веб-приложение: хранилище, кеш, почту, сессии и маршруты.
package stonks

import (
	"crypto/sha256"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/stonks/internal/config"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/health"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/pages/about"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/pages/index"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/stocks/add"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/stocks/list"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/users/admin"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/users/confirm"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/users/login"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/users/logout"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/users/profile"
	"github.com/magabrotheeeer/stonks/internal/http/handlers/users/register"
	"github.com/magabrotheeeer/stonks/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/metrics"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
)

// AuthService бизнес-логика пользователей, нужная маршрутам.
type AuthService interface {
	register.Service
	login.Service
	confirm.Service
	middlewarectx.UserService
}

// StockService бизнес-логика портфеля, нужная маршрутам.
type StockService interface {
	list.Service
	add.Service
}

// Deps зависимости маршрутов.
type Deps struct {
	Auth     AuthService
	Stocks   StockService
	DB       health.Pinger
	Sessions *web.Sessions
	Renderer *web.Renderer
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter регистрирует все маршруты приложения.
func NewRouter(logger *slog.Logger, cfg config.HTTPServer, secretKey string, d Deps) (http.Handler, error) {
	aboutHandler, err := about.New(logger, d.Renderer)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware(d.Metrics),
	)
	if cfg.CSRFEnabled {
		if !cfg.SecureCookies {
			r.Use(plaintextHTTP)
		}
		csrfKey := sha256.Sum256([]byte("csrf:" + secretKey))
		r.Use(csrf.Protect(csrfKey[:],
			csrf.Secure(cfg.SecureCookies),
			csrf.Path("/"),
			csrf.ErrorHandler(csrfFailure(logger, d.Renderer)),
		))
	}
	r.Use(middlewarectx.LoadUser(logger, d.Sessions, d.Auth))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		d.Renderer.Error(w, r, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		d.Renderer.Error(w, r, http.StatusMethodNotAllowed)
	})

	requireLogin := middlewarectx.RequireLogin(logger, d.Renderer)

	r.Get("/", index.New(logger, d.Renderer).ServeHTTP)
	r.Get("/about", aboutHandler.ServeHTTP)
	r.Get("/healthz", health.New(logger, d.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	// Портфель доступен только после входа
	r.Group(func(r chi.Router) {
		r.Use(requireLogin)
		addHandler := add.New(logger, d.Stocks, d.Renderer, d.Metrics)
		r.Get("/stocks", http.RedirectHandler("/stocks/", http.StatusMovedPermanently).ServeHTTP)
		r.Get("/stocks/", list.New(logger, d.Stocks, d.Renderer).ServeHTTP)
		r.Get("/add_stock", addHandler.ServeHTTP)
		r.Post("/add_stock", addHandler.ServeHTTP)
	})

	r.Route("/users", func(r chi.Router) {
		registerHandler := register.New(logger, d.Auth, d.Renderer, d.Metrics)
		loginHandler := login.New(logger, d.Auth, d.Sessions, d.Renderer, d.Metrics)

		r.Get("/register", registerHandler.ServeHTTP)
		r.Get("/login", loginHandler.ServeHTTP)
		r.Get("/confirm/{token}", confirm.New(logger, d.Auth, d.Renderer).ServeHTTP)
		r.Get("/admin", admin.New(logger, d.Renderer).ServeHTTP)

		// Формы с паролем ограничены по частоте
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, rate.Limit(cfg.LoginRate), cfg.LoginBurst, d.Renderer))
			r.Post("/register", registerHandler.ServeHTTP)
			r.Post("/login", loginHandler.ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireLogin)
			r.Get("/logout", logout.New(logger, d.Sessions, d.Renderer).ServeHTTP)
			r.Get("/profile", profile.New(logger, d.Renderer).ServeHTTP)
		})
	})

	return r, nil
}

// plaintextHTTP помечает запрос как пришедший по HTTP, чтобы csrf не требовал
// HTTPS-Referer при локальной разработке.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(logger *slog.Logger, rd *web.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("csrf validation failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			sl.Err(csrf.FailureReason(r)))
		rd.Error(w, r, http.StatusForbidden)
	})
}
