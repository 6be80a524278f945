package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/clients"
	"github.com/spacesedan/reviewflow/internal/collector"
	"github.com/spacesedan/reviewflow/internal/logging"
	"github.com/spacesedan/reviewflow/internal/storage"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg, err := config.LoadCollectorConfig()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	clients.InitValkey()
	defer clients.CloseValkey()

	store := storage.NewS3Store(clients.GetS3Client(), cfg.BucketName)
	source := clients.GetSourceClient(cfg.SourceURL, cfg.APIKey)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("[Main] Collector started",
		slog.String("source", cfg.SourceURL),
		slog.String("raw_prefix", cfg.Path))

	collector.NewCollector(source, clients.GetValkeyClient(), store, cfg).Run(ctx)
}
