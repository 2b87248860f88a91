package domain

import (
	"errors"
	"fmt"
)

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	Operation  string
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s %s returned status %d", e.Operation, e.Method, e.Path, e.StatusCode)
}

// StatusCodeOf returns the backend status carried by err, or 0 when err did
// not come from a backend response (network failure, decode error).
func StatusCodeOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}
