package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/socialchef/recipeai/internal/config"
	"github.com/socialchef/recipeai/internal/services/gemini"
)

const (
	textModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash-image"
	apiKey     = "integration-key"
)

const recipesJSON = `{"recipes":[
  {"recipeName":"Shakshuka","description":"Eggs poached in spiced tomato sauce.","servings":2,
   "ingredients":[{"name":"eggs","quantity":4,"unit":"pcs"},{"name":"tomatoes","quantity":400,"unit":"g"}],
   "standardInstructions":["Simmer the sauce.","Poach the eggs."],
   "thermomixInstructions":["Cook sauce 12 min/Varoma/speed 1."]},
  {"recipeName":"Mint Tea","description":"Sweet green tea with mint.","servings":4,
   "ingredients":[{"name":"green tea","quantity":2,"unit":"tbsp"}],
   "standardInstructions":["Steep the tea."],
   "thermomixInstructions":["Heat water 6 min/90C/speed 1."]}
]}`

// fakeGemini serves generateContent for one text model and one image model.
type fakeGemini struct {
	*httptest.Server

	textStatus int
	textBody   string
	// failImages lists image prompts (by substring) that should fail with a 500.
	failImages []string

	textCalls  atomic.Int32
	imageCalls atomic.Int32

	mu           sync.Mutex
	textRequests []gemini.GenerateContentRequest
}

func newFakeGemini(t *testing.T) *fakeGemini {
	t.Helper()
	f := &fakeGemini{textStatus: http.StatusOK, textBody: recipesJSON}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGemini) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("x-goog-api-key") != apiKey {
		writeAPIError(w, http.StatusForbidden, "API key not valid")
		return
	}

	var req gemini.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.URL.Path {
	case "/v1beta/models/" + textModel + ":generateContent":
		f.textCalls.Add(1)
		f.mu.Lock()
		f.textRequests = append(f.textRequests, req)
		f.mu.Unlock()

		if f.textStatus != http.StatusOK {
			writeAPIError(w, f.textStatus, "upstream failure")
			return
		}
		writeResponse(w, gemini.GenerateContentResponse{Candidates: []gemini.Candidate{{
			Content: &gemini.Content{Role: gemini.RoleModel, Parts: []gemini.Part{{Text: f.textBody}}},
		}}})

	case "/v1beta/models/" + imageModel + ":generateContent":
		f.imageCalls.Add(1)
		prompt := req.Contents[0].Parts[0].Text
		for _, name := range f.failImages {
			if strings.Contains(prompt, name) {
				writeAPIError(w, http.StatusInternalServerError, "image backend down")
				return
			}
		}
		writeResponse(w, gemini.GenerateContentResponse{Candidates: []gemini.Candidate{{
			Content: &gemini.Content{Parts: []gemini.Part{
				{Text: "Here is your image"},
				{InlineData: &gemini.Blob{MIMEType: "image/png", Data: "iVBORw0KGgo="}},
			}},
		}}})

	default:
		writeAPIError(w, http.StatusNotFound, "model not found")
	}
}

func (f *fakeGemini) lastTextRequest() gemini.GenerateContentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.textRequests[len(f.textRequests)-1]
}

func writeResponse(w http.ResponseWriter, resp gemini.GenerateContentResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "message": message, "status": http.StatusText(status)},
	})
}

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{
		ServiceName:   "recipeai",
		GeminiAPIKey:  apiKey,
		GeminiBaseURL: baseURL,
	}
	cfg.SetGenerationDefaults()
	cfg.SetJobsDefaults()
	return cfg
}
