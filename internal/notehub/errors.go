package notehub

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = errors.New("not found")

// NetworkError is a failure to reach the notes service or to read its reply.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("notehub %s: %v", e.Op, e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError is a non-2xx reply from the notes service.
type ServiceError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("notehub %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("notehub %s: status %d: %s", e.Op, e.Status, e.Message)
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}
