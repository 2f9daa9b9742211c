package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "VALIDATION_ERROR"
	ErrorTypeGenerationRequest  ErrorType = "GENERATION_REQUEST_ERROR"
	ErrorTypeGenerationFormat   ErrorType = "GENERATION_FORMAT_ERROR"
	ErrorTypeImageGeneration    ErrorType = "IMAGE_GENERATION_ERROR"
	ErrorTypeImageMissing       ErrorType = "IMAGE_MISSING_ERROR"
	ErrorTypeRecipesUnavailable ErrorType = "RECIPES_UNAVAILABLE_ERROR"
	ErrorTypeNotFound           ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal           ErrorType = "INTERNAL_ERROR"
)

// RecipesUnavailableMessage is the only failure text callers ever see for a failed
// recipe fetch, whatever the internal cause.
const RecipesUnavailableMessage = "Could not fetch recipes. Please check your API key and network connection."

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	ErrorCode     string    `json:"errorCode"`
	IsOperational bool      `json:"isOperational"`
	Recovery      string    `json:"recoverySuggestion,omitempty"`
	Err           error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// RecoverySuggestion returns the suggestion on how to recover from the error
func (e *AppError) RecoverySuggestion() string {
	return e.Recovery
}

// upstreamStatus digs the HTTP status out of an error that exposes one.
func upstreamStatus(err error) int {
	var statusErr interface{ HTTPStatus() int }
	if errors.As(err, &statusErr) {
		return statusErr.HTTPStatus()
	}
	return 0
}

// IsType reports whether any AppError in err's chain has the given type.
func IsType(err error, t ErrorType) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Type == t {
			return true
		}
		err = appErr.Err
	}
	return false
}

// NewValidationError creates a new validation error (400)
func NewValidationError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeValidation,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeNotFound,
		Message:       message,
		StatusCode:    http.StatusNotFound,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewInternalError creates a new internal error (500)
func NewInternalError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

// NewGenerationRequestError reports that the call to the text-generation service
// itself failed (network, quota, auth).
func NewGenerationRequestError(message string, errorCode string, err error) *AppError {
	upstream := upstreamStatus(err)
	status := http.StatusBadGateway
	if upstream >= 500 {
		status = upstream
	}
	return &AppError{
		Type:          ErrorTypeGenerationRequest,
		Message:       message,
		StatusCode:    status,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Check the API key, quota and network connectivity.",
		Err:           err,
	}
}

// NewGenerationFormatError reports a text-generation response that is not JSON or
// does not carry the expected recipes array.
func NewGenerationFormatError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeGenerationFormat,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Try again; the model returned an unexpected structure.",
		Err:           err,
	}
}

// NewImageGenerationError reports a failed image-generation request for one recipe.
func NewImageGenerationError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeImageGeneration,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Err:           err,
	}
}

// NewImageMissingError reports an image response that succeeded but held no image data.
func NewImageMissingError(message string, errorCode string) *AppError {
	return &AppError{
		Type:          ErrorTypeImageMissing,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
	}
}

// NewRecipesUnavailableError wraps any fatal pipeline failure into the single
// user-facing category. The cause is kept for logging only.
func NewRecipesUnavailableError(err error) *AppError {
	return &AppError{
		Type:          ErrorTypeRecipesUnavailable,
		Message:       RecipesUnavailableMessage,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     "RECIPES_UNAVAILABLE",
		IsOperational: true,
		Recovery:      "Check your API key and network connection, then try again.",
		Err:           err,
	}
}
