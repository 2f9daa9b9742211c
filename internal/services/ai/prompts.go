package ai

import (
	"fmt"
	"strings"
)

const roleSection = "You are an expert recipe assistant."

const formatSection = "Ensure the output strictly follows the provided JSON schema. " +
	"Do not include markdown formatting like ```json in your response."

const imagePromptTemplate = "A professional, vibrant, high-quality photograph of %s. %s. " +
	"Food photography, delicious, appetizing, centered, well-lit."

// BuildSystemInstruction returns the system instruction sent with every recipe
// batch. language is the human-readable output language, e.g. "French (fr)".
func BuildSystemInstruction(language string) string {
	var sb strings.Builder
	sb.WriteString(roleSection)
	sb.WriteString(" ")
	sb.WriteString(fmt.Sprintf("Generate recipes in %s.", language))
	sb.WriteString(" ")
	sb.WriteString(formatSection)
	return sb.String()
}

// BuildImagePrompt returns the food-photography prompt for one recipe.
func BuildImagePrompt(recipeName, description string) string {
	return fmt.Sprintf(imagePromptTemplate, recipeName, strings.TrimSuffix(strings.TrimSpace(description), "."))
}
