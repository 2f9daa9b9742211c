package recipe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/socialchef/recipeai/internal/errors"
	"github.com/socialchef/recipeai/internal/metrics"
	"github.com/socialchef/recipeai/internal/telemetry"
)

// Service runs the full pipeline: one text request, then one image request per recipe.
type Service struct {
	fetcher  *Fetcher
	enricher *Enricher
}

func New(fetcher *Fetcher, enricher *Enricher) *Service {
	return &Service{fetcher: fetcher, enricher: enricher}
}

// FetchRecipes returns the enriched batch for prompt. Any failure of the text
// stage comes back as a single RecipesUnavailable error and no image is requested.
func (s *Service) FetchRecipes(ctx context.Context, prompt string, lang Language) ([]EnrichedRecipe, error) {
	ctx, span := telemetry.Tracer("recipe").Start(ctx, "recipe.FetchRecipes")
	defer span.End()
	span.SetAttributes(attribute.String("recipe.language", string(lang)))

	startTime := time.Now()
	status := "success"
	defer func() {
		attrs := metric.WithAttributes(attribute.String("status", status))
		metrics.RecipeBatchesTotal.Add(ctx, 1, attrs)
		metrics.RecipeBatchDuration.Record(ctx, time.Since(startTime).Seconds(), attrs)
	}()

	recipes, err := s.fetcher.Fetch(ctx, prompt, lang)
	if err != nil {
		status = "failed"
		errorType := "unclassified"
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			errorType = string(appErr.Type)
		}
		slog.ErrorContext(ctx, "Error fetching recipes",
			"error_type", errorType,
			"error", err.Error(),
			"language", string(lang))
		span.RecordError(err)
		span.SetStatus(codes.Error, errorType)
		return nil, apperrors.NewRecipesUnavailableError(err)
	}

	span.SetAttributes(attribute.Int("recipe.count", len(recipes)))
	if len(recipes) == 0 {
		status = "empty"
		return []EnrichedRecipe{}, nil
	}

	enriched := s.enricher.Enrich(ctx, recipes)

	withImages := 0
	for _, r := range enriched {
		if r.HasImage() {
			withImages++
		}
	}
	slog.InfoContext(ctx, "Recipes generated",
		"count", len(enriched),
		"with_images", withImages,
		"language", string(lang),
		"duration_ms", time.Since(startTime).Milliseconds())

	return enriched, nil
}
