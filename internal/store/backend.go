package store

import "errors"

// ErrNotFound is returned by a Backend when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// Backend is a string key-value store. Implementations must be safe for
// concurrent use.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
