package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/socialchef/recipeai/internal/errors"
	"github.com/socialchef/recipeai/internal/middleware"
	"github.com/socialchef/recipeai/internal/services/recipe"
	"github.com/socialchef/recipeai/internal/validation"
)

const maxRequestBodyBytes = 64 << 10

type RecipesRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
}

type RecipesResponse struct {
	Recipes []recipe.EnrichedRecipe `json:"recipes"`
}

type CreateJobResponse struct {
	JobID string `json:"job_id"`
}

type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Recovery string `json:"recovery,omitempty"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleFetchRecipes runs the pipeline inline and answers with the enriched batch.
func (s *Server) HandleFetchRecipes(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRecipesRequest(w, r)
	if !ok {
		return
	}

	recipes, err := s.recipes.FetchRecipes(r.Context(), req.Prompt, req.Language)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RecipesResponse{Recipes: recipes})
}

func (s *Server) HandleCreateJob(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "Asynchronous jobs are not enabled",
			Code:  "JOBS_DISABLED",
		})
		return
	}

	req, ok := s.decodeRecipesRequest(w, r)
	if !ok {
		return
	}

	jobID, err := s.jobs.EnqueueGenerateRecipes(r.Context(), req.Prompt, req.Language)
	if err != nil {
		writeError(w, r, err)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	slog.InfoContext(r.Context(), "Recipe job created", "job_id", jobID, "user_id", userID)

	writeJSON(w, http.StatusAccepted, CreateJobResponse{JobID: jobID})
}

func (s *Server) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "Asynchronous jobs are not enabled",
			Code:  "JOBS_DISABLED",
		})
		return
	}

	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		writeError(w, r, apperrors.NewValidationError("job ID is required", "JOB_ID_REQUIRED", ""))
		return
	}

	status, err := s.jobs.JobStatus(r.Context(), jobID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) decodeRecipesRequest(w http.ResponseWriter, r *http.Request) (validation.RecipeRequest, bool) {
	var body RecipesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&body); err != nil {
		writeError(w, r, apperrors.NewValidationError("Invalid request body", "INVALID_BODY", "Send a JSON object with a prompt."))
		return validation.RecipeRequest{}, false
	}

	req, err := validation.ValidateRecipeRequest(body.Prompt, body.Language)
	if err != nil {
		writeError(w, r, err)
		return validation.RecipeRequest{}, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps AppErrors to their status and message. Anything else is a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		slog.ErrorContext(r.Context(), "Unhandled error", "error", err.Error(), "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Code: "INTERNAL"})
		return
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "error_type", string(appErr.Type), "error", err.Error(), "path", r.URL.Path)
	}

	resp := ErrorResponse{
		Error:    appErr.Message,
		Code:     appErr.Code(),
		Recovery: appErr.RecoverySuggestion(),
	}
	if appErr.Type == apperrors.ErrorTypeInternal {
		resp.Error = "Internal server error"
		resp.Recovery = ""
	}
	writeJSON(w, appErr.StatusCode, resp)
}
