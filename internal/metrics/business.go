package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Instruments start as no-ops so packages can record before Init runs (and in tests).
var (
	meter = otel.Meter("recipeai/business")

	// Recipe metrics
	RecipeBatchesTotal  metric.Int64Counter     = noop.Int64Counter{}
	RecipeBatchDuration metric.Float64Histogram = noop.Float64Histogram{}
	RecipeImagesTotal   metric.Int64Counter     = noop.Int64Counter{}

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter     = noop.Int64Counter{}
	ExternalAPIDuration   metric.Float64Histogram = noop.Float64Histogram{}

	// AI metrics
	AIGenerationDuration metric.Float64Histogram = noop.Float64Histogram{}

	// Provider fallback metrics
	ProviderFallbackTotal metric.Int64Counter = noop.Int64Counter{}
)

func Init() error {
	var err error

	// Recipe metrics
	RecipeBatchesTotal, err = meter.Int64Counter(
		"recipe.batches.total",
		metric.WithDescription("Total number of recipe batch requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeBatchDuration, err = meter.Float64Histogram(
		"recipe.batch.duration",
		metric.WithDescription("Duration of a full fetch and enrich cycle"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return err
	}

	RecipeImagesTotal, err = meter.Int64Counter(
		"recipe.images.total",
		metric.WithDescription("Total number of recipe image requests by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	// External API metrics
	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	// AI metrics
	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of AI recipe generation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	// Provider fallback metrics
	ProviderFallbackTotal, err = meter.Int64Counter(
		"provider.fallback.total",
		metric.WithDescription("Total number of model fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}
