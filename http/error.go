package http

import (
	"fmt"
	"net/http"

	"github.com/fwojciec/ljdl"
)

// StatusError reports a file request answered with an error status.
// It unwraps to an EHTTP ljdl.Error.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Unwrap exposes the application error code.
func (e *StatusError) Unwrap() error {
	return ljdl.Errorf(ljdl.EHTTP, "HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Retryable reports whether repeating the request may succeed.
// Client errors are permanent except for 408 and 429.
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return e.StatusCode >= 500
}
