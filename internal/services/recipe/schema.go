package recipe

import "github.com/socialchef/recipeai/internal/services/gemini"

var ingredientSchema = &gemini.Schema{
	Type: gemini.TypeObject,
	Properties: map[string]*gemini.Schema{
		"name":     {Type: gemini.TypeString, Description: "Ingredient name"},
		"quantity": {Type: gemini.TypeNumber, Description: "Amount of the ingredient"},
		"unit":     {Type: gemini.TypeString, Description: "Unit of measurement, e.g. g, ml, tbsp, pieces"},
	},
	Required: []string{"name", "quantity", "unit"},
}

var recipeSchema = &gemini.Schema{
	Type: gemini.TypeObject,
	Properties: map[string]*gemini.Schema{
		"recipeName":  {Type: gemini.TypeString, Description: "Name of the recipe"},
		"description": {Type: gemini.TypeString, Description: "Short appetizing description of the dish"},
		"servings":    {Type: gemini.TypeInteger, Description: "Number of people the recipe serves"},
		"ingredients": {
			Type:  gemini.TypeArray,
			Items: ingredientSchema,
		},
		"standardInstructions": {
			Type:        gemini.TypeArray,
			Description: "Step-by-step instructions for cooking on a regular stove or oven",
			Items:       &gemini.Schema{Type: gemini.TypeString},
		},
		"thermomixInstructions": {
			Type:        gemini.TypeArray,
			Description: "Step-by-step instructions for a Thermomix, including speed, time and temperature",
			Items:       &gemini.Schema{Type: gemini.TypeString},
		},
	},
	Required: []string{
		"recipeName",
		"description",
		"servings",
		"ingredients",
		"standardInstructions",
		"thermomixInstructions",
	},
}

// RecipeBatchSchema is the response schema sent with every text request:
// an object holding a "recipes" array.
var RecipeBatchSchema = &gemini.Schema{
	Type: gemini.TypeObject,
	Properties: map[string]*gemini.Schema{
		"recipes": {
			Type:  gemini.TypeArray,
			Items: recipeSchema,
		},
	},
	Required: []string{"recipes"},
}
