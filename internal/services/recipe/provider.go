package recipe

import (
	"context"

	"github.com/socialchef/recipeai/internal/services/gemini"
)

// Backend selects how text requests reach Gemini.
type Backend string

const (
	BackendREST Backend = "rest"
	BackendSDK  Backend = "sdk"
)

// Generator is one model able to answer a generateContent request.
// *gemini.Model and *gemini.SDKModel both satisfy it.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error)
}
