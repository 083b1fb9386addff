package catalog

import (
	"errors"
	"fmt"
)

// NetworkError reports a failed catalog call: the transport failed, the
// response body could not be read, or the service answered with a
// non-success status.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("failed to fetch books: HTTP %d", e.StatusCode)
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("failed to fetch books: %s: %v", e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("failed to fetch books: %v", e.Err)
	default:
		return "failed to fetch books"
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
