package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if detail := e.Detail(); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Detail returns the backend's error detail, falling back to the raw body.
// FastAPI style bodies ({"detail": "..."}) and {"error": "..."} bodies are unwrapped.
func (e *HTTPError) Detail() string {
	if len(e.Body) == 0 {
		return ""
	}
	var payload struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := decodeJSON(e.Body, &payload); err == nil {
		switch d := payload.Detail.(type) {
		case string:
			if d != "" {
				return d
			}
		case nil:
		default:
			return fmt.Sprint(d)
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(e.Body))
}

// TransportError is returned when a request produced no response at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0 when err has none.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err carries HTTP 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsTransport reports whether err is a no-response failure.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// errorPayload returns what gets logged for a failure: the response body when
// present, else the error message.
func errorPayload(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && len(httpErr.Body) > 0 {
		return strings.TrimSpace(string(httpErr.Body))
	}
	return err.Error()
}
