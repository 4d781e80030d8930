package datasource

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches an *APIError carrying a 404 status
	ErrNotFound = errors.New("not found")

	// ErrMalformed is returned when a response body is empty, null or not valid JSON
	ErrMalformed = errors.New("malformed response body")
)

// APIError is a non-OK response, or an OK response whose body carries an "error" field
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.Status)
	}
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Message extracts the backend-reported message from err, or returns fallback
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
