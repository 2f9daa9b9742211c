package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	apperrors "github.com/socialchef/recipeai/internal/errors"
	"github.com/socialchef/recipeai/internal/services/recipe"
)

// Job statuses exposed to API clients.
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// JobStatus is the client-facing view of a recipe job.
type JobStatus struct {
	JobID   string                  `json:"job_id"`
	Status  string                  `json:"status"`
	Recipes []recipe.EnrichedRecipe `json:"recipes,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

// MarshalJSON always emits "recipes" for completed jobs, even when the batch is empty.
func (s JobStatus) MarshalJSON() ([]byte, error) {
	type plain JobStatus
	var recipes *[]recipe.EnrichedRecipe
	if s.Status == JobStatusCompleted {
		r := s.Recipes
		if r == nil {
			r = []recipe.EnrichedRecipe{}
		}
		recipes = &r
	}
	return json.Marshal(struct {
		plain
		Recipes *[]recipe.EnrichedRecipe `json:"recipes,omitempty"`
	}{plain(s), recipes})
}

// JobQueue enqueues recipe jobs and reads their state back from Redis.
type JobQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	retention time.Duration
}

func NewJobQueue(redisURL string, retention time.Duration) (*JobQueue, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return &JobQueue{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		retention: retention,
	}, nil
}

// EnqueueGenerateRecipes schedules a job and returns its ID.
func (q *JobQueue) EnqueueGenerateRecipes(ctx context.Context, prompt string, lang recipe.Language) (string, error) {
	jobID := uuid.NewString()

	task, err := NewGenerateRecipesTask(GenerateRecipesPayload{
		JobID:    jobID,
		Prompt:   prompt,
		Language: lang,
	})
	if err != nil {
		return "", apperrors.NewInternalError("failed to build job", "JOB_ENCODE_FAILED", err)
	}

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.TaskID(jobID),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(0),
		asynq.Retention(q.retention),
	)
	if err != nil {
		return "", apperrors.NewInternalError("failed to enqueue job", "JOB_ENQUEUE_FAILED", err)
	}

	slog.InfoContext(ctx, "Recipe job enqueued", "job_id", info.ID, "queue", info.Queue, "language", string(lang))
	return jobID, nil
}

// JobStatus returns the current state of a job, or a NotFound AppError.
func (q *JobQueue) JobStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	info, err := q.inspector.GetTaskInfo(QueueDefault, jobID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return nil, apperrors.NewNotFoundError("job not found", "JOB_NOT_FOUND", "Jobs expire after their retention period.")
		}
		return nil, apperrors.NewInternalError("failed to read job", "JOB_LOOKUP_FAILED", err)
	}
	return statusFromTaskInfo(info)
}

func (q *JobQueue) Close() error {
	return errors.Join(q.client.Close(), q.inspector.Close())
}

func statusFromTaskInfo(info *asynq.TaskInfo) (*JobStatus, error) {
	status := &JobStatus{JobID: info.ID}

	switch info.State {
	case asynq.TaskStateActive:
		status.Status = JobStatusRunning
	case asynq.TaskStateCompleted:
		status.Status = JobStatusCompleted
		var result JobResult
		if err := json.Unmarshal(info.Result, &result); err != nil {
			return nil, apperrors.NewInternalError("failed to decode job result", "JOB_RESULT_INVALID", err)
		}
		status.Recipes = result.Recipes
	case asynq.TaskStateArchived:
		// LastErr holds the internal cause; clients only ever see the generic message.
		status.Status = JobStatusFailed
		status.Error = apperrors.RecipesUnavailableMessage
	default:
		status.Status = JobStatusQueued
	}

	return status, nil
}
