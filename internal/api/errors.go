package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a transport failure.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network" // Request never got a response
	KindHTTP    ErrorKind = "http"    // Non-2xx status
	KindDecode  ErrorKind = "decode"  // Body was not the expected JSON
)

// TransportError is returned for every failed backend call. Callers show a
// retry affordance; it is never fatal.
type TransportError struct {
	Kind       ErrorKind
	Op         string // e.g. "GET /products"
	StatusCode int    // Set for KindHTTP
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
