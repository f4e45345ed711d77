package transport

import (
	"errors"
	"fmt"
	"net/url"
)

// StatusError is returned when the final response is not HTTP 200.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	Attempts   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// RequestError is returned when no response could be obtained.
type RequestError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("GET %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a StatusError carrying HTTP 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == 404
}

// unwrapURLError strips the *url.Error added by http.Client so the request
// URL is not repeated in messages.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
