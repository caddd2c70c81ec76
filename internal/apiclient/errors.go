package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned for any 401; the bound session has already been expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")
	// ErrEmptyResponse is returned by callers that need a record the backend did not send.
	ErrEmptyResponse = errors.New("backend returned no record")
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status      int
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// Retryable reports whether a GET may be repeated after this error.
func (e *APIError) Retryable() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// FieldErrors extracts backend field errors from err, if any.
func FieldErrors(err error) (map[string]string, string, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil, "", false
	}
	return apiErr.FieldErrors, apiErr.Message, apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnprocessableEntity || apiErr.Status == http.StatusConflict
}
