package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/recipeai/internal/config"
	apperrors "github.com/socialchef/recipeai/internal/errors"
	"github.com/socialchef/recipeai/internal/services/recipe"
	"github.com/socialchef/recipeai/internal/worker"
)

type MockRecipeFetcher struct {
	mock.Mock
}

func (m *MockRecipeFetcher) FetchRecipes(ctx context.Context, prompt string, lang recipe.Language) ([]recipe.EnrichedRecipe, error) {
	args := m.Called(ctx, prompt, lang)
	recipes, _ := args.Get(0).([]recipe.EnrichedRecipe)
	return recipes, args.Error(1)
}

type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) EnqueueGenerateRecipes(ctx context.Context, prompt string, lang recipe.Language) (string, error) {
	args := m.Called(ctx, prompt, lang)
	return args.String(0), args.Error(1)
}

func (m *MockJobStore) JobStatus(ctx context.Context, jobID string) (*worker.JobStatus, error) {
	args := m.Called(ctx, jobID)
	status, _ := args.Get(0).(*worker.JobStatus)
	return status, args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{ServiceName: "recipeai"}
}

func carbonara() recipe.EnrichedRecipe {
	return recipe.EnrichedRecipe{
		Recipe: recipe.Recipe{
			RecipeName:            "Carbonara",
			Description:           "Roman pasta.",
			Servings:              2,
			Ingredients:           []recipe.Ingredient{{Name: "spaghetti", Quantity: 200, Unit: "g"}},
			StandardInstructions:  []string{"Boil pasta.", "Mix with eggs."},
			ThermomixInstructions: []string{"Cook pasta 10 min/100C/speed 1."},
		},
		ImageURL: recipe.ImageDataURIPrefix + "aW1n",
	}
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHandleHealth(t *testing.T) {
	router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestHandleFetchRecipes(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fetcher := new(MockRecipeFetcher)
		fetcher.On("FetchRecipes", mock.Anything, "pasta dinners", recipe.LanguageFrench).
			Return([]recipe.EnrichedRecipe{carbonara()}, nil)
		router := NewRouter(NewServer(testConfig(), fetcher, nil))

		rr := postJSON(t, router, "/api/recipes", RecipesRequest{Prompt: "  pasta dinners ", Language: "FR"})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var resp RecipesResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Recipes, 1)
		assert.Equal(t, "Carbonara", resp.Recipes[0].RecipeName)
		assert.True(t, strings.HasPrefix(resp.Recipes[0].ImageURL, recipe.ImageDataURIPrefix))
		fetcher.AssertExpectations(t)
	})

	t.Run("empty batch is an empty array", func(t *testing.T) {
		fetcher := new(MockRecipeFetcher)
		fetcher.On("FetchRecipes", mock.Anything, "nothing", recipe.DefaultLanguage).
			Return([]recipe.EnrichedRecipe{}, nil)
		router := NewRouter(NewServer(testConfig(), fetcher, nil))

		rr := postJSON(t, router, "/api/recipes", RecipesRequest{Prompt: "nothing"})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"recipes":[]}`, rr.Body.String())
	})

	t.Run("missing prompt", func(t *testing.T) {
		fetcher := new(MockRecipeFetcher)
		router := NewRouter(NewServer(testConfig(), fetcher, nil))

		rr := postJSON(t, router, "/api/recipes", RecipesRequest{Prompt: "   "})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, "PROMPT_REQUIRED", resp.Code)
		assert.NotEmpty(t, resp.Recovery)
		fetcher.AssertNotCalled(t, "FetchRecipes", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unsupported language", func(t *testing.T) {
		router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), nil))

		rr := postJSON(t, router, "/api/recipes", RecipesRequest{Prompt: "soup", Language: "de"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "LANGUAGE_UNSUPPORTED", decodeError(t, rr).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), nil))

		req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader("{not json"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "INVALID_BODY", decodeError(t, rr).Code)
	})

	t.Run("pipeline failure hides the cause", func(t *testing.T) {
		fetcher := new(MockRecipeFetcher)
		cause := errors.New("gemini API error (status 401 Unauthorized): API key not valid")
		fetcher.On("FetchRecipes", mock.Anything, "soup", recipe.DefaultLanguage).
			Return(nil, apperrors.NewRecipesUnavailableError(cause))
		router := NewRouter(NewServer(testConfig(), fetcher, nil))

		rr := postJSON(t, router, "/api/recipes", RecipesRequest{Prompt: "soup"})

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, apperrors.RecipesUnavailableMessage, resp.Error)
		assert.Equal(t, "RECIPES_UNAVAILABLE", resp.Code)
		assert.Equal(t, "Check your API key and network connection, then try again.", resp.Recovery)
		assert.NotContains(t, rr.Body.String(), "API key not valid")
	})

	t.Run("unknown error is a bare 500", func(t *testing.T) {
		fetcher := new(MockRecipeFetcher)
		fetcher.On("FetchRecipes", mock.Anything, "soup", recipe.DefaultLanguage).
			Return(nil, errors.New("boom"))
		router := NewRouter(NewServer(testConfig(), fetcher, nil))

		rr := postJSON(t, router, "/api/recipes", RecipesRequest{Prompt: "soup"})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, "Internal server error", resp.Error)
		assert.Empty(t, resp.Recovery)
	})
}

func TestHandleCreateJob(t *testing.T) {
	t.Run("disabled without a job store", func(t *testing.T) {
		router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), nil))

		rr := postJSON(t, router, "/api/recipes/jobs", RecipesRequest{Prompt: "soup"})

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "JOBS_DISABLED", decodeError(t, rr).Code)
	})

	t.Run("enqueues", func(t *testing.T) {
		jobs := new(MockJobStore)
		jobs.On("EnqueueGenerateRecipes", mock.Anything, "curries", recipe.LanguageArabic).Return("job-123", nil)
		router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), jobs))

		rr := postJSON(t, router, "/api/recipes/jobs", RecipesRequest{Prompt: "curries", Language: "ar"})

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.JSONEq(t, `{"job_id":"job-123"}`, rr.Body.String())
		jobs.AssertExpectations(t)
	})

	t.Run("validates before enqueueing", func(t *testing.T) {
		jobs := new(MockJobStore)
		router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), jobs))

		rr := postJSON(t, router, "/api/recipes/jobs", RecipesRequest{Prompt: strings.Repeat("a", 2001)})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "PROMPT_TOO_LONG", decodeError(t, rr).Code)
		jobs.AssertNotCalled(t, "EnqueueGenerateRecipes", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("enqueue failure", func(t *testing.T) {
		jobs := new(MockJobStore)
		jobs.On("EnqueueGenerateRecipes", mock.Anything, "soup", recipe.DefaultLanguage).
			Return("", apperrors.NewInternalError("failed to enqueue job", "JOB_ENQUEUE_FAILED", errors.New("redis down")))
		router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), jobs))

		rr := postJSON(t, router, "/api/recipes/jobs", RecipesRequest{Prompt: "soup"})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, "Internal server error", resp.Error)
		assert.Empty(t, resp.Recovery)
	})
}

func TestHandleJobStatus(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		jobs := new(MockJobStore)
		jobs.On("JobStatus", mock.Anything, "job-1").Return(&worker.JobStatus{
			JobID:   "job-1",
			Status:  worker.JobStatusCompleted,
			Recipes: []recipe.EnrichedRecipe{carbonara()},
		}, nil)
		router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), jobs))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/recipes/jobs/job-1", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var status worker.JobStatus
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		assert.Equal(t, worker.JobStatusCompleted, status.Status)
		require.Len(t, status.Recipes, 1)
		assert.Equal(t, "Carbonara", status.Recipes[0].RecipeName)
	})

	t.Run("failed job carries the generic message", func(t *testing.T) {
		jobs := new(MockJobStore)
		jobs.On("JobStatus", mock.Anything, "job-2").Return(&worker.JobStatus{
			JobID:  "job-2",
			Status: worker.JobStatusFailed,
			Error:  apperrors.RecipesUnavailableMessage,
		}, nil)
		router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), jobs))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/recipes/jobs/job-2", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"job_id":"job-2","status":"failed","error":"`+apperrors.RecipesUnavailableMessage+`"}`, rr.Body.String())
	})

	t.Run("unknown job", func(t *testing.T) {
		jobs := new(MockJobStore)
		jobs.On("JobStatus", mock.Anything, "missing").
			Return(nil, apperrors.NewNotFoundError("job not found", "JOB_NOT_FOUND", ""))
		router := NewRouter(NewServer(testConfig(), new(MockRecipeFetcher), jobs))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/recipes/jobs/missing", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "JOB_NOT_FOUND", decodeError(t, rr).Code)
	})

	t.Run("missing job ID", func(t *testing.T) {
		srv := NewServer(testConfig(), new(MockRecipeFetcher), new(MockJobStore))

		rr := httptest.NewRecorder()
		srv.HandleJobStatus(rr, httptest.NewRequest(http.MethodGet, "/api/recipes/jobs/", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRouter_Auth(t *testing.T) {
	cfg := testConfig()
	cfg.AuthJWTSecret = "test-secret"

	fetcher := new(MockRecipeFetcher)
	fetcher.On("FetchRecipes", mock.Anything, "soup", recipe.DefaultLanguage).
		Return([]recipe.EnrichedRecipe{}, nil)
	router := NewRouter(NewServer(cfg, fetcher, nil))

	t.Run("health stays public", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		rr := postJSON(t, router, "/api/recipes", RecipesRequest{Prompt: "soup"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		fetcher.AssertNotCalled(t, "FetchRecipes", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("accepts a signed token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(`{"prompt":"soup"}`))
		req.Header.Set("Authorization", "Bearer "+signed)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
