package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is an error that carries the status the client should see.
// Two HTTPErrors match under errors.Is when their codes are equal, so
// errors.Is(err, ErrNotFound) holds for every 404.
type HTTPError struct {
	// Err is the underlying cause, logged but never rendered.
	Err error

	Message   string
	RequestID string
	Code      int
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	return ok && t.Code == e.Code
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sentinels for errors.Is checks. Use the constructors below to build
// errors that carry a message and cause.
var (
	ErrNotFound           = NewHTTPError(http.StatusNotFound, "not found")
	ErrForbidden          = NewHTTPError(http.StatusForbidden, "forbidden")
	ErrMethodNotAllowed   = NewHTTPError(http.StatusMethodNotAllowed, "method not allowed")
	ErrInternal           = NewHTTPError(http.StatusInternalServerError, "internal server error")
	ErrServiceUnavailable = NewHTTPError(http.StatusServiceUnavailable, "service unavailable")
)

var (
	ErrInvalidArgument = errors.New("plexis: invalid argument")
	ErrInvalidMethod   = fmt.Errorf("%w: unsupported request method", ErrInvalidArgument)
	ErrDetachedRequest = errors.New("plexis: request is not bound to an app")
)

func NotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func Forbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func MethodNotAllowed(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, message, opts...)
}

func Internal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// IsHTTPError reports whether err wraps an HTTPError.
func IsHTTPError(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}

// AsHTTPError returns the first HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// IsNotFound reports whether err resolves to a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
