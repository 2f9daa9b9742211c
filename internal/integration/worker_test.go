package integration

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/socialchef/recipeai/internal/errors"
	"github.com/socialchef/recipeai/internal/services/recipe"
	"github.com/socialchef/recipeai/internal/worker"
)

func TestWorker_FailedJobIsNotRetried(t *testing.T) {
	fake := newFakeGemini(t)
	fake.textStatus = http.StatusServiceUnavailable
	cfg := testConfig(fake.URL)

	svc, closeFn, err := recipe.NewService(context.Background(), cfg.Generation, cfg.GeminiAPIKey, cfg.GeminiBaseURL)
	require.NoError(t, err)
	defer closeFn()

	mux := worker.NewServeMux(worker.NewRecipeProcessor(svc), nil)

	task, err := worker.NewGenerateRecipesTask(worker.GenerateRecipesPayload{
		JobID:    "job-1",
		Prompt:   "soup",
		Language: recipe.LanguageFrench,
	})
	require.NoError(t, err)

	err = mux.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRecipesUnavailable))
	assert.Equal(t, int32(1), fake.textCalls.Load())
}

func TestWorker_InvalidPayload(t *testing.T) {
	fake := newFakeGemini(t)
	cfg := testConfig(fake.URL)

	svc, closeFn, err := recipe.NewService(context.Background(), cfg.Generation, cfg.GeminiAPIKey, cfg.GeminiBaseURL)
	require.NoError(t, err)
	defer closeFn()

	mux := worker.NewServeMux(worker.NewRecipeProcessor(svc), nil)

	err = mux.ProcessTask(context.Background(), asynq.NewTask(worker.TypeGenerateRecipes, []byte("invalid json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Equal(t, int32(0), fake.textCalls.Load())
}
