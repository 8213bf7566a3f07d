package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx backend response. Message carries the backend's
// own error text when the body had one, otherwise a generic HTTP
// status message.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// NetworkError is a transport-level failure: the request never reached
// the backend or the response never arrived.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError is a 2xx response whose body did not match the expected
// shape.
type DecodeError struct {
	Endpoint string
	Reason   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", e.Endpoint, e.Reason)
}

// IsAuthError reports whether err means the backend no longer accepts
// the session. Classification is by status code, not by matching the
// error message text.
func IsAuthError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// newError builds an *Error from a non-2xx response body, preferring
// the backend-supplied message.
func newError(status int, body []byte) *Error {
	var payload struct {
		Error string `json:"error"`
	}
	// Best effort; a non-JSON body just yields the generic message.
	_ = json.Unmarshal(body, &payload)

	msg := payload.Error
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	return &Error{StatusCode: status, Message: msg}
}
