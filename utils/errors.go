package utils

import (
	"fmt"
	"net/http"
)

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

func NewAPIErrorWithDetails(code int, message, details string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

var (
	ErrInvalidRequest     = NewAPIError(http.StatusBadRequest, "Invalid request")
	ErrUnauthorized       = NewAPIError(http.StatusUnauthorized, "Unauthorized")
	ErrForbidden          = NewAPIError(http.StatusForbidden, "Forbidden")
	ErrNotFound           = NewAPIError(http.StatusNotFound, "Resource not found")
	ErrConflict           = NewAPIError(http.StatusConflict, "Resource conflict")
	ErrTooManyRequests    = NewAPIError(http.StatusTooManyRequests, "Too many requests")
	ErrInternalServer     = NewAPIError(http.StatusInternalServerError, "Internal server error")
	ErrServiceUnavailable = NewAPIError(http.StatusServiceUnavailable, "Service unavailable")
)

var (
	ErrTodoNotFound    = NewAPIError(http.StatusNotFound, "Todo not found")
	ErrTagNotFound     = NewAPIError(http.StatusNotFound, "Tag not found")
	ErrSubtaskNotFound = NewAPIError(http.StatusNotFound, "Subtask not found")
	ErrPostNotFound    = NewAPIError(http.StatusNotFound, "Blog post not found")
	ErrPageNotFound    = NewAPIError(http.StatusNotFound, "The requested records were not found")
)

var (
	ErrStoreUnavailable = NewAPIError(http.StatusInternalServerError, "Storage backend unavailable")
	ErrCacheUnavailable = NewAPIError(http.StatusInternalServerError, "Cache backend unavailable")
)

// FieldErrors maps a field name to its validation failures, mirroring
// the {field: [messages...]} error body shape.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	return "validation failed"
}

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

// ConfigurationError indicates a missing or malformed required setting.
// It is fatal at startup, never recoverable per request.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

func NewConfigurationError(setting, reason string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Reason: reason}
}

func WrapError(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

func GetHTTPStatusFromError(err error) int {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Code
	}
	if _, ok := err.(FieldErrors); ok {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
