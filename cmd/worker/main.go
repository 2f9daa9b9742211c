package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/recipeai/internal/config"
	"github.com/socialchef/recipeai/internal/logger"
	"github.com/socialchef/recipeai/internal/metrics"
	"github.com/socialchef/recipeai/internal/sentry"
	"github.com/socialchef/recipeai/internal/services/recipe"
	"github.com/socialchef/recipeai/internal/telemetry"
	"github.com/socialchef/recipeai/internal/worker"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.AsyncJobsEnabled() {
		log.Fatalf("REDIS_URL is required to run the worker")
	}

	serviceName := cfg.ServiceName + "-worker"

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, serviceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, cfg.OTLPHeaders())
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, serviceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	} else if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	slog.SetDefault(logger.New(cfg.Env))

	recipes, closeRecipes, err := recipe.NewService(ctx, cfg.Generation, cfg.GeminiAPIKey, cfg.GeminiBaseURL)
	if err != nil {
		log.Fatalf("Failed to build recipe service: %v", err)
	}
	defer closeRecipes()

	workerMetrics, err := worker.NewWorkerMetrics()
	if err != nil {
		slog.Warn("Failed to init worker metrics", "error", err)
	}

	srv, err := worker.NewServer(cfg.RedisURL, cfg.Jobs.Concurrency)
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}

	mux := worker.NewServeMux(worker.NewRecipeProcessor(recipes), workerMetrics)

	if err := srv.Start(mux); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
	slog.Info("Worker started", "concurrency", cfg.Jobs.Concurrency)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down worker...")
	srv.Shutdown()
}
