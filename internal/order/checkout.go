package order

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/logging"
	"storefront/internal/types"
)

// Storage is the part of the persistence adapter checkout needs.
type Storage interface {
	SavePhone(phone string)
	LoadPhone() string
	Clear()
}

// Checkout validates the order form and submits the cart.
type Checkout struct {
	cart      *cart.Store
	storage   Storage
	submitter *Submitter
}

// NewCheckout wires a checkout flow.
func NewCheckout(c *cart.Store, storage Storage, submitter *Submitter) *Checkout {
	return &Checkout{cart: c, storage: storage, submitter: submitter}
}

// RememberPhone stores the phone as typed so the form can be restored.
func (c *Checkout) RememberPhone(phone string) {
	c.storage.SavePhone(phone)
}

// SavedPhone returns the remembered phone number.
func (c *Checkout) SavedPhone() string {
	return c.storage.LoadPhone()
}

// Place submits the cart with phone. An empty cart or a malformed phone
// returns a *ValidationError and nothing is sent. A rejected or failed
// submission returns Result{Success:false} and leaves cart and storage
// alone; an accepted one clears both.
func (c *Checkout) Place(ctx context.Context, phone string) (Result, error) {
	st := c.cart.Snapshot()
	if st.IsEmpty() {
		return Result{}, &ValidationError{Field: "cart", Message: "cart is empty, add products to place an order"}
	}
	if err := ValidatePhone(phone); err != nil {
		return Result{}, err
	}

	res := c.submitter.Submit(ctx, phone, types.Lines(st.Items))
	if !res.Success {
		logging.OrderWarn("Order %s not placed: %s", res.RequestID, res.Error)
		return res, nil
	}

	c.cart.Clear()
	c.cart.Flush()
	c.storage.Clear()
	logging.Audit().CartCleared(len(st.Items), "order_accepted")
	logging.Order("Order %s placed: %d items, total %s", res.RequestID, st.TotalItems, st.TotalPrice.StringFixed(2))
	return res, nil
}
