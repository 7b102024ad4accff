package api

import (
	"errors"
	"fmt"
)

// StatusError is returned when the server replies with a non-2xx status.
// A StatusError means the request completed; anything else is a transport
// failure and comes back as a plain wrapped error.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Body)
}

// IsStatusError reports whether err is (or wraps) a server status error.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
