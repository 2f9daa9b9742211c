package recipe

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/recipeai/internal/metrics"
	"github.com/socialchef/recipeai/internal/services/gemini"
)

// FallbackGenerator retries a failed text request once on a second model,
// but only when the first failure is retryable.
type FallbackGenerator struct {
	primary   Generator
	secondary Generator
}

func NewFallbackGenerator(primary, secondary Generator) *FallbackGenerator {
	return &FallbackGenerator{
		primary:   primary,
		secondary: secondary,
	}
}

func (f *FallbackGenerator) Name() string {
	return f.primary.Name()
}

// Generate tries the primary model first, falls back to the secondary on retryable errors
func (f *FallbackGenerator) Generate(ctx context.Context, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error) {
	resp, err := f.primary.Generate(ctx, req)
	if err == nil {
		return resp, nil
	}

	providerErr := ClassifyError(err, f.primary.Name())

	if !IsRetryableError(err) {
		slog.InfoContext(ctx, "Primary model failed with non-retryable error, not attempting fallback",
			"model", f.primary.Name(),
			"error_type", providerErr.Type,
			"error", err.Error())
		return nil, err
	}

	slog.InfoContext(ctx, "Primary model failed with retryable error, attempting fallback",
		"model", f.primary.Name(),
		"fallback_model", f.secondary.Name(),
		"error_type", providerErr.Type,
		"error", err.Error())

	metrics.ProviderFallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_model", f.primary.Name()),
		attribute.String("to_model", f.secondary.Name()),
		attribute.String("reason", providerErr.Type),
	))

	resp, fallbackErr := f.secondary.Generate(ctx, req)
	if fallbackErr == nil {
		slog.InfoContext(ctx, "Fallback model succeeded",
			"fallback_model", f.secondary.Name(),
			"primary_error_type", providerErr.Type)
		return resp, nil
	}

	fallbackProviderErr := ClassifyError(fallbackErr, f.secondary.Name())
	slog.ErrorContext(ctx, "Both primary and fallback models failed",
		"primary_error_type", providerErr.Type,
		"primary_error", err.Error(),
		"fallback_error_type", fallbackProviderErr.Type,
		"fallback_error", fallbackErr.Error())

	return nil, fmt.Errorf("model %s failed: %w; fallback model %s failed: %w",
		f.primary.Name(), err, f.secondary.Name(), fallbackErr)
}
