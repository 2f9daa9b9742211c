package recipe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/socialchef/recipeai/internal/services/gemini"
)

type fakeGenerator struct {
	name  string
	fn    func(ctx context.Context, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error)
	calls atomic.Int32

	mu       sync.Mutex
	requests []*gemini.GenerateContentRequest
}

func (f *fakeGenerator) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeGenerator) Generate(ctx context.Context, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.fn(ctx, req)
}

func textResponse(text string) *gemini.GenerateContentResponse {
	return &gemini.GenerateContentResponse{Candidates: []gemini.Candidate{{
		Content: &gemini.Content{Role: gemini.RoleModel, Parts: []gemini.Part{{Text: text}}},
	}}}
}

func imageResponse(data string) *gemini.GenerateContentResponse {
	return &gemini.GenerateContentResponse{Candidates: []gemini.Candidate{{
		Content: &gemini.Content{Parts: []gemini.Part{{InlineData: &gemini.Blob{MIMEType: "image/png", Data: data}}}},
	}}}
}

func textGenerator(text string) *fakeGenerator {
	return &fakeGenerator{fn: func(ctx context.Context, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error) {
		return textResponse(text), nil
	}}
}

// promptText returns the single text part of a request's first content.
func promptText(req *gemini.GenerateContentRequest) string {
	if len(req.Contents) == 0 || len(req.Contents[0].Parts) == 0 {
		return ""
	}
	return req.Contents[0].Parts[0].Text
}

const twoRecipesJSON = `{"recipes":[
  {"recipeName":"Pasta","description":"Quick tomato pasta","servings":2,
   "ingredients":[{"name":"spaghetti","quantity":200,"unit":"g"}],
   "standardInstructions":["Boil","Toss"],"thermomixInstructions":["Cook 10 min/100°C/speed 1"]},
  {"recipeName":"Salad","description":"Green salad","servings":1,
   "ingredients":[{"name":"lettuce","quantity":1,"unit":"head"}],
   "standardInstructions":["Chop"],"thermomixInstructions":["Chop 5 sec/speed 4"]}
]}`
