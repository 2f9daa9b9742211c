package recipe

// ImageDataURIPrefix is prepended to every generated image payload.
const ImageDataURIPrefix = "data:image/png;base64,"

type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe is one recipe as returned by the text model, before image enrichment.
type Recipe struct {
	RecipeName            string       `json:"recipeName"`
	Description           string       `json:"description"`
	Servings              int          `json:"servings"`
	Ingredients           []Ingredient `json:"ingredients"`
	StandardInstructions  []string     `json:"standardInstructions"`
	ThermomixInstructions []string     `json:"thermomixInstructions"`
}

// EnrichedRecipe is a Recipe plus its image. ImageURL is either a
// data:image/png;base64 URI or "" when no image could be produced.
type EnrichedRecipe struct {
	Recipe
	ImageURL string `json:"imageUrl"`
}

// HasImage reports whether an image was attached.
func (r EnrichedRecipe) HasImage() bool {
	return r.ImageURL != ""
}
