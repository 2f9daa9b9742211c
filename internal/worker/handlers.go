package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/socialchef/recipeai/internal/services/recipe"
	"github.com/socialchef/recipeai/internal/validation"
)

// RecipeService is the pipeline a worker runs for each job.
type RecipeService interface {
	FetchRecipes(ctx context.Context, prompt string, lang recipe.Language) ([]recipe.EnrichedRecipe, error)
}

type RecipeProcessor struct {
	recipes     RecipeService
	writeResult func(t *asynq.Task, data []byte) error
}

func NewRecipeProcessor(recipes RecipeService) *RecipeProcessor {
	return &RecipeProcessor{
		recipes:     recipes,
		writeResult: writeTaskResult,
	}
}

func writeTaskResult(t *asynq.Task, data []byte) error {
	w := t.ResultWriter()
	if w == nil {
		return fmt.Errorf("task %s has no result writer", t.Type())
	}
	_, err := w.Write(data)
	return err
}

// HandleGenerateRecipes runs the pipeline for one job and stores the batch as the task result.
// Failures are final; the task is never retried.
func (p *RecipeProcessor) HandleGenerateRecipes(ctx context.Context, t *asynq.Task) error {
	var payload GenerateRecipesPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	req, err := validation.ValidateRecipeRequest(payload.Prompt, string(payload.Language))
	if err != nil {
		slog.WarnContext(ctx, "Rejected recipe job", "job_id", payload.JobID, "error", err.Error())
		return fmt.Errorf("invalid job %s: %v: %w", payload.JobID, err, asynq.SkipRetry)
	}

	slog.InfoContext(ctx, "Processing recipe job", "job_id", payload.JobID, "language", string(req.Language))

	recipes, err := p.recipes.FetchRecipes(ctx, req.Prompt, req.Language)
	if err != nil {
		slog.ErrorContext(ctx, "Recipe job failed", "job_id", payload.JobID, "error", err.Error())
		return fmt.Errorf("job %s: %w", payload.JobID, joinSkipRetry(err))
	}

	data, err := json.Marshal(JobResult{Recipes: recipes})
	if err != nil {
		return fmt.Errorf("failed to encode result: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.writeResult(t, data); err != nil {
		return fmt.Errorf("failed to write result: %v: %w", err, asynq.SkipRetry)
	}

	slog.InfoContext(ctx, "Recipe job completed", "job_id", payload.JobID, "count", len(recipes))
	return nil
}

// joinSkipRetry keeps err inspectable with errors.As while marking the task as final.
func joinSkipRetry(err error) error {
	return fmt.Errorf("%w (%w)", err, asynq.SkipRetry)
}
