package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-matcher/internal/matching"
)

// ErrInvalidRequest indicates a malformed or missing candidate profile.
// Surfaced to the caller as a client error, never retried.
type ErrInvalidRequest struct {
	Message string
}

func (e *ErrInvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Structural faults (bad request shape, dimension mismatch) get non-2xx
// status; they are never smuggled into a 200 body.
func HTTPStatus(err error) int {
	var invalid *ErrInvalidRequest
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}
	var dim *matching.ErrDimensionMismatch
	if errors.As(err, &dim) {
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
