package stonks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/stonks/internal/cache"
	"github.com/magabrotheeeer/stonks/internal/config"
	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/metrics"
	"github.com/magabrotheeeer/stonks/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/lib/smtp"
	"github.com/magabrotheeeer/stonks/internal/lib/token"
	"github.com/magabrotheeeer/stonks/internal/migrations"
	authservice "github.com/magabrotheeeer/stonks/internal/services/auth"
	"github.com/magabrotheeeer/stonks/internal/services/mail"
	stockservice "github.com/magabrotheeeer/stonks/internal/services/stocks"
	"github.com/magabrotheeeer/stonks/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App веб-приложение со всеми зависимостями.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *storage.Storage
	cache      *cache.Cache
	dispatcher *mail.Dispatcher
	conn       *amqp.Connection
	ch         *amqp.Channel
}

// New подключает хранилище, применяет миграции и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	app.db = db
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, err
	}

	// Без адреса redis список акций читается напрямую из базы
	var stocksCache stockservice.Cache
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, err
		}
		app.cache = cacheRedis
		stocksCache = cacheRedis
	}

	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	sender, err := app.mailSender(cfg)
	if err != nil {
		app.close()
		return nil, err
	}
	app.dispatcher = mail.NewDispatcher(sender, logger)
	app.dispatcher.OnSent(func(_ mail.Message, err error) {
		m.MailSent.WithLabelValues(metrics.Result(err)).Inc()
	})

	tokens := token.NewMaker(cfg.SecretKey, token.SubjectEmailConfirmation, cfg.Mail.TokenTTL)
	authService := authservice.NewAuthService(db, tokens, app.dispatcher, cfg.BaseURL, cfg.Mail.TokenTTL, logger)
	stockService := stockservice.NewStockService(db, stocksCache, cfg.StocksCacheTTL, logger)

	sessions := web.NewSessions(cfg.SecretKey, cfg.SecureCookies, cfg.RememberFor)
	renderer, err := web.NewRenderer(sessions, cfg.Currency, logger)
	if err != nil {
		app.close()
		return nil, err
	}

	router, err := NewRouter(logger, cfg.HTTPServer, cfg.SecretKey, Deps{
		Auth:     authService,
		Stocks:   stockService,
		DB:       db,
		Sessions: sessions,
		Renderer: renderer,
		Metrics:  m,
		Gatherer: registry,
	})
	if err != nil {
		app.close()
		return nil, err
	}

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// mailSender выбирает способ доставки писем: напрямую через SMTP
// или публикацией в очередь для воркера cmd/mailer.
func (a *App) mailSender(cfg *config.Config) (mail.Sender, error) {
	if cfg.Mail.Mode != config.MailModeQueue {
		return mail.NewSMTPSender(smtp.NewTransport(cfg.SMTP, a.logger), cfg.Mail.From, a.logger), nil
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.MailExchange, rabbitmq.MailQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	a.conn, a.ch = conn, ch
	return mail.NewQueuePublisher(ch, a.logger), nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close дожидается фоновых писем и освобождает соединения.
func (a *App) close() {
	if a.dispatcher != nil {
		a.dispatcher.Wait()
	}
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", sl.Err(err))
		}
	}
}
