package api

import (
	"context"

	"github.com/socialchef/recipeai/internal/config"
	"github.com/socialchef/recipeai/internal/services/recipe"
	"github.com/socialchef/recipeai/internal/worker"
)

// RecipeFetcher runs the synchronous pipeline.
type RecipeFetcher interface {
	FetchRecipes(ctx context.Context, prompt string, lang recipe.Language) ([]recipe.EnrichedRecipe, error)
}

// JobStore enqueues and looks up asynchronous recipe jobs.
type JobStore interface {
	EnqueueGenerateRecipes(ctx context.Context, prompt string, lang recipe.Language) (string, error)
	JobStatus(ctx context.Context, jobID string) (*worker.JobStatus, error)
}

type Server struct {
	cfg     *config.Config
	recipes RecipeFetcher
	jobs    JobStore
}

// NewServer wires the handlers. jobs may be nil when no Redis is configured;
// the job endpoints then answer 503.
func NewServer(cfg *config.Config, recipes RecipeFetcher, jobs JobStore) *Server {
	return &Server{
		cfg:     cfg,
		recipes: recipes,
		jobs:    jobs,
	}
}
