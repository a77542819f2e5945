package giftery

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks caller misuse. It is never transient.
	ErrInvalidArgument = errors.New("giftery: invalid argument")

	ErrEmptyCommand   = fmt.Errorf("%w: command is empty", ErrInvalidArgument)
	ErrUnknownCommand = fmt.Errorf("%w: unknown command", ErrInvalidArgument)
	ErrNilParser      = fmt.Errorf("%w: result parser is nil", ErrInvalidArgument)
	ErrNilOrder       = fmt.Errorf("%w: order data is nil", ErrInvalidArgument)
	ErrInvalidOrder   = fmt.Errorf("%w: invalid order data", ErrInvalidArgument)
)

// HTTPError reports a call that did not end with an HTTP 200 response.
//
// Transport is set when no response was received at all; Code then holds the
// transport error code. Otherwise StatusCode holds the unexpected status.
type HTTPError struct {
	Transport  bool
	Code       int
	StatusCode int
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	return "giftery: " + e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// IsTransport reports whether the request failed before any response arrived.
func (e *HTTPError) IsTransport() bool { return e != nil && e.Transport }

func newTransportError(code int, msg string, err error) *HTTPError {
	return &HTTPError{
		Transport: true,
		Code:      code,
		Message:   fmt.Sprintf("%s (%d)", msg, code),
		Err:       err,
	}
}

func newStatusError(status int) *HTTPError {
	return &HTTPError{
		StatusCode: status,
		Message:    fmt.Sprintf("unexpected HTTP status code (%d)", status),
	}
}

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	Command Command
	Body    []byte
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("giftery: parse %s response: %v", e.Command, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// APIError is a well-formed response in which the remote service reports a failure.
type APIError struct {
	Command Command
	Code    int
	Text    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("giftery: %s failed: %s (code %d)", e.Command, e.Text, e.Code)
}
