package recipe

import "fmt"

// Validate lists data-model violations. Callers log them; a recipe is never dropped for them.
func (r Recipe) Validate() []string {
	var problems []string
	if r.RecipeName == "" {
		problems = append(problems, "recipeName is empty")
	}
	if r.Servings < 1 {
		problems = append(problems, fmt.Sprintf("servings must be at least 1, got %d", r.Servings))
	}
	for i, ing := range r.Ingredients {
		if ing.Quantity < 0 {
			problems = append(problems, fmt.Sprintf("ingredient %d (%s) has negative quantity %g", i, ing.Name, ing.Quantity))
		}
	}
	if len(r.StandardInstructions) == 0 {
		problems = append(problems, "standardInstructions is empty")
	}
	if len(r.ThermomixInstructions) == 0 {
		problems = append(problems, "thermomixInstructions is empty")
	}
	return problems
}
