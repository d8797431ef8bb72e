package apiclient

import (
	"errors"
	"net/http"
)

// ErrNotFound matches (via errors.Is) a RequestError for a 404 response.
var ErrNotFound = errors.New("resource not found")

// genericMessage is used when the error body carries no message.
const genericMessage = "An error occurred"

// RequestError is returned for every failed call: non-2xx responses and
// transport failures alike. Status is 0 when no response was received.
type RequestError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is lets callers test a 404 with errors.Is(err, ErrNotFound).
func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Transport reports whether the request never produced an HTTP response.
func (e *RequestError) Transport() bool {
	return e.Status == 0
}
