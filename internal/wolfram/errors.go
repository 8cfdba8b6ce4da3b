package wolfram

import (
	"errors"
	"fmt"
)

// ErrInvalidEndpoint is returned by NewClient when the endpoint is not an absolute URL.
var ErrInvalidEndpoint = errors.New("invalid endpoint: expected an absolute http(s) URL")

// TransportError reports that the request could not be completed:
// DNS failure, refused connection, proxy failure, or a broken body stream.
//
// HTTP status codes are not transport errors; the API reports most problems
// inside the JSON body.
type TransportError struct {
	// Op is the step that failed ("build request", "send", "read body").
	Op string
	// URL is the request URL with the appid redacted.
	URL string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}
