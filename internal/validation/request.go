package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/socialchef/recipeai/internal/errors"
	"github.com/socialchef/recipeai/internal/services/recipe"
)

// MaxPromptLength caps the prompt in characters (runes), not bytes.
const MaxPromptLength = 2000

// RecipeRequest is a validated recipe generation request.
type RecipeRequest struct {
	Prompt   string
	Language recipe.Language
}

// ValidateRecipeRequest trims the prompt and resolves the language.
// It returns a 400 AppError describing the first problem found.
func ValidateRecipeRequest(prompt, language string) (RecipeRequest, error) {
	prompt = strings.TrimSpace(prompt)

	if prompt == "" {
		return RecipeRequest{}, errors.NewValidationError(
			"prompt is required",
			"PROMPT_REQUIRED",
			"Describe the recipes you want, e.g. \"quick vegetarian dinners\".",
		)
	}

	if n := utf8.RuneCountInString(prompt); n > MaxPromptLength {
		return RecipeRequest{}, errors.NewValidationError(
			fmt.Sprintf("prompt is too long (%d characters, max %d)", n, MaxPromptLength),
			"PROMPT_TOO_LONG",
			"Shorten the prompt.",
		)
	}

	lang, err := recipe.ParseLanguage(language)
	if err != nil {
		return RecipeRequest{}, errors.NewValidationError(
			err.Error(),
			"LANGUAGE_UNSUPPORTED",
			"Use one of: en, fr, ar.",
		)
	}

	return RecipeRequest{Prompt: prompt, Language: lang}, nil
}
