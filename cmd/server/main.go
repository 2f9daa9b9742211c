package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/recipeai/internal/api"
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

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, cfg.OTLPHeaders())
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
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

	// A nil *JobQueue must not end up inside the JobStore interface.
	var jobs api.JobStore
	if cfg.AsyncJobsEnabled() {
		queue, err := worker.NewJobQueue(cfg.RedisURL, cfg.Jobs.ResultRetention)
		if err != nil {
			log.Fatalf("Failed to create job queue: %v", err)
		}
		defer queue.Close()
		jobs = queue
	} else {
		slog.Info("REDIS_URL not set, asynchronous jobs disabled")
	}

	if cfg.AuthJWTSecret == "" {
		slog.Warn("AUTH_JWT_SECRET not set, API routes are unauthenticated")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(api.NewServer(cfg, recipes, jobs)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-sigCtx.Done()
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting server", "port", cfg.Port, "async_jobs", cfg.AsyncJobsEnabled())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
