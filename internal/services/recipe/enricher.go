package recipe

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/recipeai/internal/errors"
	"github.com/socialchef/recipeai/internal/metrics"
	"github.com/socialchef/recipeai/internal/services/ai"
	"github.com/socialchef/recipeai/internal/services/gemini"
	"github.com/socialchef/recipeai/internal/utils"
)

// Enricher attaches a generated photo to each recipe of a batch.
type Enricher struct {
	generator Generator
	timeout   time.Duration
}

// NewEnricher returns an Enricher calling generator once per recipe.
// A zero timeout leaves each image request bounded only by the caller's context.
func NewEnricher(generator Generator, timeout time.Duration) *Enricher {
	return &Enricher{generator: generator, timeout: timeout}
}

// GenerateImage requests one photo of r and returns its base64 payload.
func (e *Enricher) GenerateImage(ctx context.Context, r Recipe) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req := &gemini.GenerateContentRequest{
		Contents: []gemini.Content{gemini.UserText(ai.BuildImagePrompt(r.RecipeName, r.Description))},
		GenerationConfig: &gemini.GenerationConfig{
			ResponseModalities: []gemini.Modality{gemini.ModalityImage},
		},
	}

	resp, err := e.generator.Generate(ctx, req)
	if err != nil {
		return "", errors.NewImageGenerationError("image generation failed for "+r.RecipeName, "IMAGE_GENERATION_FAILED", err)
	}

	blob, ok := resp.FirstInlineData()
	if !ok {
		return "", errors.NewImageMissingError("no image data returned for "+r.RecipeName, "IMAGE_DATA_MISSING")
	}
	return blob.Data, nil
}

// Enrich requests all images concurrently and waits for every one of them.
// A failed image leaves ImageURL empty for that recipe only; Enrich itself never fails.
// The result has the same length and order as recipes.
func (e *Enricher) Enrich(ctx context.Context, recipes []Recipe) []EnrichedRecipe {
	tasks := make([]func(ctx context.Context) (string, error), len(recipes))
	for i, r := range recipes {
		tasks[i] = func(ctx context.Context) (string, error) {
			return e.GenerateImage(ctx, r)
		}
	}

	results := utils.SettleAll(ctx, tasks)

	enriched := make([]EnrichedRecipe, len(recipes))
	for i, res := range results {
		enriched[i] = EnrichedRecipe{Recipe: recipes[i]}

		outcome := "success"
		switch {
		case res.Err != nil && errors.IsType(res.Err, errors.ErrorTypeImageMissing):
			outcome = "missing"
		case res.Err != nil:
			outcome = "failed"
		}
		metrics.RecipeImagesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

		if res.Err != nil {
			slog.WarnContext(ctx, "Image generation failed, continuing without image",
				"index", i,
				"recipe", recipes[i].RecipeName,
				"error", res.Err.Error())
			continue
		}
		enriched[i].ImageURL = ImageDataURIPrefix + res.Value
	}

	return enriched
}
