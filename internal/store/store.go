// Package store persists the cart and the last-used phone number to durable
// client-side key-value storage. Every operation is best-effort: failures are
// logged to the storage category and never returned.
package store

import (
	"encoding/json"
	"errors"

	"storefront/internal/logging"
	"storefront/internal/types"
)

// Storage keys.
const (
	CartKey  = "online-store-cart"
	PhoneKey = "online-store-phone"
)

// Store is the persistence adapter for cart contents and the phone number.
type Store struct {
	backend Backend
}

// New wraps a backend. A nil backend gets an in-memory one.
func New(b Backend) *Store {
	if b == nil {
		b = NewMemoryBackend()
	}
	return &Store{backend: b}
}

// Open opens the configured backend. If the database cannot be opened the
// store degrades to in-memory storage; the error is logged, not returned.
func Open(driver, path string) *Store {
	if driver == "memory" || path == "" {
		return New(NewMemoryBackend())
	}
	b, err := OpenSQLite(driver, path)
	if err != nil {
		logging.StorageError("Storage unavailable, using memory: %v", err)
		return New(NewMemoryBackend())
	}
	return New(b)
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// SaveCart writes the cart items as JSON.
func (s *Store) SaveCart(items []types.CartItem) {
	if items == nil {
		items = []types.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		logging.StorageError("Failed to encode cart: %v", err)
		return
	}
	s.set(CartKey, string(data))
}

// LoadCart returns the stored cart items, or an empty slice when nothing
// usable is stored.
func (s *Store) LoadCart() []types.CartItem {
	raw, ok := s.get(CartKey)
	if !ok {
		return []types.CartItem{}
	}
	var items []types.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logging.StorageError("Discarding malformed cart record: %v", err)
		return []types.CartItem{}
	}
	if items == nil {
		return []types.CartItem{}
	}
	return items
}

// SavePhone remembers the phone number.
func (s *Store) SavePhone(phone string) {
	s.set(PhoneKey, phone)
}

// LoadPhone returns the remembered phone number, or "".
func (s *Store) LoadPhone() string {
	raw, _ := s.get(PhoneKey)
	return raw
}

// Clear removes both records.
func (s *Store) Clear() {
	s.guard("clear", func() error {
		return errors.Join(s.backend.Delete(CartKey), s.backend.Delete(PhoneKey))
	})
}

// Close releases the backend.
func (s *Store) Close() {
	s.guard("close", s.backend.Close)
}

func (s *Store) get(key string) (value string, ok bool) {
	s.guard("get "+key, func() error {
		v, err := s.backend.Get(key)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, ok = v, true
		return nil
	})
	return value, ok
}

func (s *Store) set(key, value string) {
	s.guard("set "+key, func() error {
		return s.backend.Set(key, value)
	})
}

// guard runs fn and logs any error or panic from the backend.
func (s *Store) guard(op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logging.StorageError("Storage %s panicked: %v", op, r)
		}
	}()
	if err := fn(); err != nil {
		logging.StorageError("Storage %s failed: %v", op, err)
	}
}
