package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBadRequest is returned for 400 responses.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrServer is returned for 5xx and any other unexpected status.
	ErrServer = errors.New("server error")
	// ErrUnavailable is returned when the API could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")
)

// APIError is a non-2xx response from the products API.
type APIError struct {
	Status  int
	Name    string
	Message string
	Details []string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("products api: status %d", e.Status)
	}
	return fmt.Sprintf("products api: status %d: %s", e.Status, e.Message)
}

// Unwrap classifies the error by status so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest:
		return ErrBadRequest
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrServer
	}
}

// MessageOf extracts the message to show the user for err: the server's own
// message when it sent one, a fixed text when the server was unreachable, and
// fallback otherwise.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnavailable) {
		return "The server is unavailable, please try again later"
	}
	return fallback
}
