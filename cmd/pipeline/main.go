package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/clients"
	"github.com/spacesedan/reviewflow/internal/db"
	"github.com/spacesedan/reviewflow/internal/extract"
	"github.com/spacesedan/reviewflow/internal/load"
	"github.com/spacesedan/reviewflow/internal/logging"
	"github.com/spacesedan/reviewflow/internal/monitoring"
	"github.com/spacesedan/reviewflow/internal/pipeline"
	"github.com/spacesedan/reviewflow/internal/storage"
	"github.com/spacesedan/reviewflow/internal/transform"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg, err := config.LoadETLConfig()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := monitoring.CheckLLMEndpoint(ctx, cfg.BaseURL); err != nil {
		slog.Error("[Main] LLM endpoint unreachable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := db.InitDB(); err != nil {
		slog.Error("[Main] Failed to connect to KPI store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.CloseDB()

	store := storage.NewS3Store(clients.GetS3Client(), cfg.BucketName)
	chatClient := transform.NewOpenAIChatClient(clients.GetLLMClient(cfg.BaseURL), cfg.Model)

	p := pipeline.New(
		extract.NewExtractor(store, cfg),
		transform.NewTransformer(chatClient, cfg),
		load.NewLoader(store, db.NewKPIStore(), cfg),
		cfg,
	)

	if err := p.Run(ctx); err != nil {
		slog.Error("[Main] ETL pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
