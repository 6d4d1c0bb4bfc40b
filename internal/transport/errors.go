package transport

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrCircuitOpen = errors.New("transport: circuit open")

// Error is the failure shape of every API call. HTTPStatusCode is zero for
// technical failures, in which case Cause holds the underlying error.
type Error struct {
	HTTPStatusCode int
	Message        string
	Body           any
	Cause          error
}

func (e *Error) Error() string {
	if e.HTTPStatusCode != 0 {
		return fmt.Sprintf("%s: status %d", e.Message, e.HTTPStatusCode)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.HTTPStatusCode
	}
	return 0
}

// IsConflict reports whether err is an HTTP 409 from the API.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

func technical(err error) *Error {
	return &Error{Message: err.Error(), Cause: err}
}
