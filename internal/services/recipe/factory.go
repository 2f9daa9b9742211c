package recipe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/socialchef/recipeai/internal/config"
	"github.com/socialchef/recipeai/internal/httpclient"
	"github.com/socialchef/recipeai/internal/services/gemini"
)

// NewService builds the pipeline from configuration. Text requests go through
// the configured backend, optionally wrapped in a FallbackGenerator; image
// requests always use the REST client since only it can ask for image output.
// The returned close function releases SDK resources and is always non-nil.
func NewService(ctx context.Context, cfg config.GenerationConfig, apiKey, baseURL string) (*Service, func() error, error) {
	rest := gemini.NewClient(apiKey,
		gemini.WithBaseURL(baseURL),
		gemini.WithHTTPClient(httpclient.NewInstrumentedClient(cfg.RequestTimeout)),
	)

	text, closeFn, err := newTextGenerator(ctx, cfg, apiKey, rest)
	if err != nil {
		return nil, nil, err
	}

	image := rest.GenerativeModel(cfg.ImageModel)

	slog.InfoContext(ctx, "Recipe service configured",
		"backend", cfg.Backend,
		"text_model", cfg.TextModel,
		"image_model", cfg.ImageModel,
		"fallback_enabled", cfg.FallbackEnabled,
		"fallback_model", cfg.FallbackModel)

	return New(NewFetcher(text, cfg), NewEnricher(image, cfg.ImageTimeout)), closeFn, nil
}

func newTextGenerator(ctx context.Context, cfg config.GenerationConfig, apiKey string, rest *gemini.Client) (Generator, func() error, error) {
	var primary, secondary Generator
	closeFn := func() error { return nil }

	switch Backend(cfg.Backend) {
	case BackendSDK:
		sdk, err := gemini.NewSDKClient(ctx, apiKey)
		if err != nil {
			return nil, nil, err
		}
		closeFn = sdk.Close
		primary = sdk.GenerativeModel(cfg.TextModel)
		if cfg.FallbackModel != "" {
			secondary = sdk.GenerativeModel(cfg.FallbackModel)
		}
	case BackendREST, "":
		primary = rest.GenerativeModel(cfg.TextModel)
		if cfg.FallbackModel != "" {
			secondary = rest.GenerativeModel(cfg.FallbackModel)
		}
	default:
		return nil, nil, fmt.Errorf("unknown generation backend %q", cfg.Backend)
	}

	if cfg.FallbackEnabled && secondary != nil && cfg.FallbackModel != cfg.TextModel {
		return NewFallbackGenerator(primary, secondary), closeFn, nil
	}
	return primary, closeFn, nil
}
