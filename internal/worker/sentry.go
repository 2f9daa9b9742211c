package worker

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"

	recipesentry "github.com/socialchef/recipeai/internal/sentry"
)

// SentryMiddleware binds a hub per task and reports failed tasks.
func SentryMiddleware(h asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		taskID, _ := asynq.GetTaskID(ctx)
		queueName, _ := asynq.GetQueueName(ctx)

		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("task_type", t.Type())
		hub.Scope().SetTag("task_id", taskID)
		hub.Scope().SetTag("queue", queueName)

		ctx = sentry.SetHubOnContext(ctx, hub)

		defer func() {
			if r := recover(); r != nil {
				hub.RecoverWithContext(ctx, r)
				panic(r)
			}
		}()

		err := h.ProcessTask(ctx, t)
		if err != nil {
			recipesentry.CaptureError(ctx, err)
		}
		return err
	})
}
