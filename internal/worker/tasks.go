package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/socialchef/recipeai/internal/services/recipe"
)

// Task type constants
const (
	TypeGenerateRecipes = "generate:recipes"
)

// QueueDefault is the queue every recipe job goes to.
const QueueDefault = "default"

// GenerateRecipesPayload is the payload for recipe generation tasks.
// The job ID doubles as the asynq task ID.
type GenerateRecipesPayload struct {
	JobID    string          `json:"job_id"`
	Prompt   string          `json:"prompt"`
	Language recipe.Language `json:"language"`
}

// JobResult is what a completed task stores as its asynq result.
type JobResult struct {
	Recipes []recipe.EnrichedRecipe `json:"recipes"`
}

// NewGenerateRecipesTask creates a new recipe generation task
func NewGenerateRecipesTask(payload GenerateRecipesPayload, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGenerateRecipes, data, opts...), nil
}
