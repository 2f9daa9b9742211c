package worker

import (
	"fmt"

	"github.com/hibiken/asynq"
)

// NewServer creates a new Asynq server for processing tasks
func NewServer(redisURL string, concurrency int) (*asynq.Server, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if concurrency <= 0 {
		concurrency = 10
	}

	return asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: concurrency,
			Queues:      map[string]int{QueueDefault: 1},
			Logger:      newAsynqLogger(),
		},
	), nil
}

// NewServeMux routes recipe tasks through the tracing, Sentry and metrics middlewares.
func NewServeMux(processor *RecipeProcessor, metrics *WorkerMetrics) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(OTelMiddleware, SentryMiddleware)
	if metrics != nil {
		mux.Use(metrics.Middleware)
	}
	mux.HandleFunc(TypeGenerateRecipes, processor.HandleGenerateRecipes)
	return mux
}
