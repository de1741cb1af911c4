// Package cart holds the in-memory shopping cart. Every mutation recomputes
// the aggregate totals, notifies subscribers and schedules a best-effort
// write of the item list to a Persister.
package cart

import (
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"storefront/internal/logging"
	"storefront/internal/types"
)

// Persister is the durable storage the cart is mirrored to. The store's
// Persistence Adapter (internal/store.Store) satisfies it.
type Persister interface {
	SaveCart(items []types.CartItem)
	LoadCart() []types.CartItem
}

// State is an immutable view of the cart. Version grows by one with every
// mutation, so a newer state always has the larger Version.
type State struct {
	Items      []types.CartItem
	TotalItems int
	TotalPrice decimal.Decimal
	Version    uint64
}

// IsEmpty reports whether the cart has no lines.
func (s State) IsEmpty() bool { return len(s.Items) == 0 }

// Store is the authoritative cart. Build one per session and pass it to
// whatever needs it. The zero value is not usable; call New.
type Store struct {
	mu         sync.Mutex
	items      []types.CartItem
	totalItems int
	totalPrice decimal.Decimal
	version    uint64
	hydrated   bool

	// dispatchMu is taken before mu is released so observers see states in
	// mutation order. subsMu only guards the subscriber list, so a callback
	// may unsubscribe.
	dispatchMu sync.Mutex
	subsMu     sync.Mutex
	subs       []*subscription
	nextSub    int

	persister Persister
	writeMu   sync.Mutex
	pending   []types.CartItem
	dirty     bool
	wake      chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	closed    bool
}

type subscription struct {
	id     int
	fn     func(State)
	active atomic.Bool
}

// New creates an empty cart. A nil persister disables persistence.
func New(p Persister) *Store {
	s := &Store{
		totalPrice: decimal.Zero,
		persister:  p,
		wake:       make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	if p != nil {
		go s.runWriter()
	} else {
		close(s.doneCh)
	}
	return s
}

// Add puts one unit of product in the cart. An existing line keeps the
// product snapshot it was created with.
func (s *Store) Add(p types.Product) {
	s.mu.Lock()
	if i := s.indexLocked(p.ID); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, types.CartItem{ProductID: p.ID, Product: p, Quantity: 1})
	}
	logging.CartDebug("Add product=%d", p.ID)
	s.commitLocked()
}

// Remove drops the line for productID. Absent ids are ignored.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	s.removeLocked(productID)
	logging.CartDebug("Remove product=%d", productID)
	s.commitLocked()
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line; an absent id is ignored.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	s.mu.Lock()
	if quantity <= 0 {
		s.removeLocked(productID)
	} else if i := s.indexLocked(productID); i >= 0 {
		s.items[i].Quantity = quantity
	}
	logging.CartDebug("UpdateQuantity product=%d qty=%d", productID, quantity)
	s.commitLocked()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	n := len(s.items)
	s.items = nil
	logging.Cart("Cart cleared (%d lines)", n)
	s.commitLocked()
}

// Load replaces the whole cart. Lines with a non-positive quantity and
// repeated product ids (after the first) are dropped.
func (s *Store) Load(items []types.CartItem) {
	s.mu.Lock()
	s.items = sanitize(items)
	logging.CartDebug("Load %d lines (%d given)", len(s.items), len(items))
	s.commitLocked()
}

// Hydrate restores the persisted cart. Storage is read at most once per
// Store, and an empty persisted cart leaves the in-memory cart untouched.
func (s *Store) Hydrate() {
	s.mu.Lock()
	if s.hydrated || s.persister == nil {
		s.mu.Unlock()
		return
	}
	s.hydrated = true
	s.mu.Unlock()

	items := s.persister.LoadCart()
	if len(items) == 0 {
		logging.CartDebug("Hydrate: nothing persisted")
		return
	}
	s.Load(items)

	st := s.Snapshot()
	logging.Cart("Hydrated %d lines, %d items", len(st.Items), st.TotalItems)
	logging.Audit().CartHydrated(len(st.Items), st.TotalItems)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Quantity returns how many units of productID are in the cart.
func (s *Store) Quantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Subscribe registers fn to be called with the new state after every
// mutation. fn must not mutate the cart but may unsubscribe itself. The
// returned func unsubscribes; a call already running when it returns is
// allowed to finish.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	s.subsMu.Lock()
	sub.id = s.nextSub
	s.nextSub++
	s.subs = append(s.subs, sub)
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			s.subsMu.Lock()
			for i, other := range s.subs {
				if other.id == sub.id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
			s.subsMu.Unlock()
		})
	}
}

// Flush writes any pending cart snapshot synchronously.
func (s *Store) Flush() {
	if s.persister == nil {
		return
	}
	s.flush()
}

// Close flushes the pending write and stops the background writer.
// Mutations after Close are kept in memory only.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.persister != nil {
		close(s.stopCh)
	}
	<-s.doneCh
}

// commitLocked recomputes aggregates, schedules persistence and notifies
// subscribers. Called with mu held; releases it.
func (s *Store) commitLocked() {
	s.recomputeLocked()
	s.version++
	st := s.stateLocked()

	if s.persister != nil && !s.closed {
		s.pending = st.Items
		s.dirty = true
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}

	s.dispatchMu.Lock()
	s.mu.Unlock()
	defer s.dispatchMu.Unlock()

	s.subsMu.Lock()
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(cloneState(st))
		}
	}
}

func (s *Store) recomputeLocked() {
	total := 0
	price := decimal.Zero
	for _, item := range s.items {
		total += item.Quantity
		price = price.Add(item.Subtotal())
	}
	s.totalItems = total
	s.totalPrice = price
}

func (s *Store) stateLocked() State {
	items := make([]types.CartItem, len(s.items))
	copy(items, s.items)
	return State{Items: items, TotalItems: s.totalItems, TotalPrice: s.totalPrice, Version: s.version}
}

func (s *Store) indexLocked(productID int64) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(productID int64) {
	if i := s.indexLocked(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

func (s *Store) runWriter() {
	defer close(s.doneCh)
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.stopCh:
			s.flush()
			return
		}
	}
}

// flush takes the latest pending snapshot and saves it. writeMu keeps
// saves in snapshot order.
func (s *Store) flush() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	items := s.pending
	s.pending = nil
	s.dirty = false
	s.mu.Unlock()

	timer := logging.StartTimer(logging.CategoryCart, "persist cart")
	s.persister.SaveCart(items)
	timer.Stop()
}

func sanitize(items []types.CartItem) []types.CartItem {
	out := make([]types.CartItem, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if item.Quantity <= 0 || seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		out = append(out, item)
	}
	return out
}

func cloneState(st State) State {
	items := make([]types.CartItem, len(st.Items))
	copy(items, st.Items)
	st.Items = items
	return st
}
