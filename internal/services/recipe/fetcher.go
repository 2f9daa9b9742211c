package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/recipeai/internal/config"
	"github.com/socialchef/recipeai/internal/errors"
	"github.com/socialchef/recipeai/internal/metrics"
	"github.com/socialchef/recipeai/internal/services/ai"
	"github.com/socialchef/recipeai/internal/services/gemini"
	"github.com/socialchef/recipeai/internal/utils"
)

const jsonMIMEType = "application/json"

// Fetcher turns a free-text prompt into a batch of recipes with a single
// schema-constrained text request.
type Fetcher struct {
	generator   Generator
	temperature float32
	retry       utils.RetryConfig
}

func NewFetcher(generator Generator, cfg config.GenerationConfig) *Fetcher {
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}
	return &Fetcher{
		generator:   generator,
		temperature: temperature,
		retry:       utils.GenerationRetryConfig(cfg.MaxAttempts, cfg.RequestTimeout, IsRetryableError),
	}
}

// BuildRequest assembles the text request for prompt in lang.
func (f *Fetcher) BuildRequest(prompt string, lang Language) *gemini.GenerateContentRequest {
	return &gemini.GenerateContentRequest{
		Contents:          []gemini.Content{gemini.UserText(prompt)},
		SystemInstruction: gemini.SystemText(ai.BuildSystemInstruction(lang.DisplayName())),
		GenerationConfig: &gemini.GenerationConfig{
			ResponseMIMEType: jsonMIMEType,
			ResponseSchema:   RecipeBatchSchema,
			Temperature:      gemini.Float32(f.temperature),
		},
	}
}

// Fetch asks the text model for recipes matching prompt. It returns an empty,
// non-nil slice when the model answers with no recipes.
func (f *Fetcher) Fetch(ctx context.Context, prompt string, lang Language) ([]Recipe, error) {
	req := f.BuildRequest(prompt, lang)

	startTime := time.Now()
	resp, err := utils.WithRetry(ctx, func(ctx context.Context) (*gemini.GenerateContentResponse, error) {
		return f.generator.Generate(ctx, req)
	}, f.retry)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.AIGenerationDuration.Record(ctx, time.Since(startTime).Seconds(), metric.WithAttributes(
		attribute.String("model", f.generator.Name()),
		attribute.String("status", status),
	))

	if err != nil {
		return nil, errors.NewGenerationRequestError("recipe generation request failed", "GENERATION_REQUEST_FAILED", err)
	}

	recipes, err := ParseRecipes(resp.Text())
	if err != nil {
		return nil, err
	}

	for i, r := range recipes {
		if problems := r.Validate(); len(problems) > 0 {
			slog.WarnContext(ctx, "Generated recipe violates data model",
				"index", i,
				"recipe", r.RecipeName,
				"problems", problems)
		}
	}

	return recipes, nil
}

// ParseRecipes decodes the model's JSON answer. Anything but an object with a
// "recipes" array of well-typed recipes is a GenerationFormatError.
func ParseRecipes(text string) ([]Recipe, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, formatError("empty response", nil)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return nil, formatError("response is not a JSON object", err)
	}
	if envelope == nil {
		return nil, formatError("response is null", nil)
	}

	raw, ok := envelope["recipes"]
	if !ok {
		return nil, formatError(`response has no "recipes" key`, nil)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || isNull(raw) {
		return nil, formatError(`"recipes" is not an array`, err)
	}

	recipes := make([]Recipe, 0, len(items))
	for i, item := range items {
		var r Recipe
		if isNull(item) {
			return nil, formatError(fmt.Sprintf("recipe %d is null", i), nil)
		}
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, formatError(fmt.Sprintf("recipe %d does not match the expected shape", i), err)
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func formatError(msg string, err error) *errors.AppError {
	return errors.NewGenerationFormatError("malformed recipe response: "+msg, "GENERATION_FORMAT_INVALID", err)
}
