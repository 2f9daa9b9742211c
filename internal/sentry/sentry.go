package sentry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	apperrors "github.com/socialchef/recipeai/internal/errors"
)

// Init initializes Sentry with the provided configuration.
// If DSN is empty, Sentry initialization is skipped and nil is returned.
func Init(dsn, env, serviceName, serviceVersion string) error {
	if dsn == "" {
		return nil
	}

	options := sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		ServerName:       serviceName,
		Release:          serviceVersion,
		AttachStacktrace: true,
		TracesSampleRate: 0.0, // OpenTelemetry owns tracing
	}

	if err := sentry.Init(options); err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	return nil
}

// Flush waits for all pending Sentry events to be sent.
// Call this during graceful shutdown.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// Recover captures a panic and forwards it to Sentry.
// Should be used with defer in goroutines.
func Recover() {
	sentry.Recover()
}

// CaptureMessage sends a message to Sentry.
func CaptureMessage(msg string) {
	sentry.CaptureMessage(msg)
}

// CaptureError reports err on the hub bound to ctx, tagging it with the
// application error type and code when err carries an AppError.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range ErrorTags(err) {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

// ErrorTags returns the Sentry tags derived from err.
func ErrorTags(err error) map[string]string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return map[string]string{"error.type": "unclassified"}
	}
	tags := map[string]string{
		"error.type":   string(appErr.Type),
		"error.status": fmt.Sprintf("%d", appErr.StatusCode),
	}
	if appErr.ErrorCode != "" {
		tags["error.code"] = appErr.ErrorCode
	}
	return tags
}
