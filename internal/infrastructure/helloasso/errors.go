package helloasso

import (
	"errors"
	"fmt"
)

// APIError is a non-success response from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("helloasso returned status %d: %s", e.StatusCode, e.Body)
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
