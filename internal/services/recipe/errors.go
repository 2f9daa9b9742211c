package recipe

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/socialchef/recipeai/internal/errors"
	"github.com/socialchef/recipeai/internal/services/gemini"
)

// ProviderError represents a classified error from a model call
type ProviderError struct {
	Type    string // "rate_limit", "credit_exhausted", "auth_error", "server_error", "client_error", "unknown"
	Message string
	Model   string
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return e.Message
}

// ClassifyError analyzes an error and returns a ProviderError with classification.
// A structured API status wins over message matching.
func ClassifyError(err error, model string) *ProviderError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	classified := func(t string) *ProviderError {
		return &ProviderError{Type: t, Message: msg, Model: model}
	}

	if apiErr, ok := gemini.IsAPIError(err); ok {
		return classified(classifyStatus(apiErr.StatusCode))
	}

	// SDK backend errors.
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return classified(classifyStatus(gerr.Code))
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.OK {
		return classified(classifyCode(st.Code()))
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return classified("server_error")
	}

	if containsAny(msg, "status 429", "HTTP 429", "rate limit", "too many requests", "resource_exhausted") {
		return classified("rate_limit")
	}

	if containsAny(msg, "status 402", "HTTP 402", "insufficient credit", "credit exhausted", "billing") {
		return classified("credit_exhausted")
	}

	if containsAny(msg, "status 401", "status 403", "api key not valid", "permission_denied", "unauthenticated") {
		return classified("auth_error")
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode >= 500 {
			return classified("server_error")
		}
		if appErr.StatusCode >= 400 {
			return classified("client_error")
		}
	}

	if containsAny(msg, "status 5", "HTTP 5", "server error", "internal error", "unavailable") {
		return classified("server_error")
	}

	if containsAny(msg, "status 4", "HTTP 4", "bad request", "unauthorized", "forbidden") {
		return classified("client_error")
	}

	return classified("unknown")
}

func classifyStatus(status int) string {
	switch {
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	case status == http.StatusPaymentRequired:
		return "credit_exhausted"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "auth_error"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	default:
		return "unknown"
	}
}

func classifyCode(code codes.Code) string {
	switch code {
	case codes.ResourceExhausted:
		return "rate_limit"
	case codes.Unauthenticated, codes.PermissionDenied:
		return "auth_error"
	case codes.Unavailable, codes.Internal, codes.DeadlineExceeded, codes.Aborted:
		return "server_error"
	case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition, codes.OutOfRange:
		return "client_error"
	default:
		return "unknown"
	}
}

// IsRetryableError returns true if the error is retryable (rate limit, credit exhausted, or server error)
func IsRetryableError(err error) bool {
	providerErr := ClassifyError(err, "")
	if providerErr == nil {
		return false
	}

	switch providerErr.Type {
	case "rate_limit", "credit_exhausted", "server_error":
		return true
	default:
		return false
	}
}

func containsAny(s string, substrs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
