package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/driveline/rental-be/internal/config"
	"github.com/driveline/rental-be/internal/http/handlers"
	"github.com/driveline/rental-be/internal/logging"
	"github.com/driveline/rental-be/internal/media"
	"github.com/driveline/rental-be/internal/server"
	"github.com/driveline/rental-be/internal/storage/postgres"
)

func main() {
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	ctx := context.Background()

	loadLocalEnv(ctx, log)

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "load config", "error", err)
		os.Exit(1)
	}

	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error(ctx, "init database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var mediaSvc handlers.MediaService
	if cfg.MediaConfigured() {
		svc, err := media.NewService(ctx, cfg)
		if err != nil {
			log.Error(ctx, "init media storage", "error", err)
			os.Exit(1)
		}
		mediaSvc = svc
	} else {
		log.Warn(ctx, "media storage not configured; photo endpoints disabled")
	}

	srv := server.New(cfg, store, mediaSvc, log)

	go func() {
		log.Info(ctx, "rental backend listening", "addr", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error(ctx, "graceful shutdown error", "error", err)
	}
}

func loadLocalEnv(ctx context.Context, log logging.Logger) {
	if err := godotenv.Load(); err != nil {
		log.Info(ctx, "no .env file found; relying on existing environment")
	}
}
