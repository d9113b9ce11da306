package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/stonks/internal/app/mailer"
	"github.com/magabrotheeeer/stonks/internal/config"
	"github.com/magabrotheeeer/stonks/internal/lib/logger"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env, cfg.Log)

	log.Info("starting mailer", slog.String("env", cfg.Env), slog.Int("workers", cfg.Mail.Workers))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := mailer.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize mailer app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("mailer app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("mailer app stopped gracefully")
}
