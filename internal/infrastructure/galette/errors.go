package galette

import (
	"errors"
	"fmt"
)

// HostError is a non-success, non-validation response from the host
// application.
type HostError struct {
	StatusCode int
	Body       string
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host application returned status %d: %s", e.StatusCode, e.Body)
}

func IsHostError(err error) (*HostError, bool) {
	var hostErr *HostError
	ok := errors.As(err, &hostErr)
	return hostErr, ok
}
