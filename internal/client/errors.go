package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any ServerError carrying a 404.
var ErrNotFound = errors.New("not found")

// TransportError is a network-level failure: unreachable host, reset, timeout.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline expiry.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// ServerError is a non-2xx answer from the backend.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: server responded %d: %s", e.Op, e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *ServerError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// MalformedResponseError is a 2xx body missing the fields the operation needs.
// It propagates like a ServerError.
type MalformedResponseError struct {
	Op     string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Op, e.Reason)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServer reports whether err is a ServerError or a MalformedResponseError.
func IsServer(err error) bool {
	var se *ServerError
	var me *MalformedResponseError
	return errors.As(err, &se) || errors.As(err, &me)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// UserMessage returns the text a shell should display for err.
func UserMessage(err error) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if IsTransport(err) {
		return "Unable to reach the server. Please try again."
	}
	return "Something went wrong. Please try again."
}
