package main

import (
	"storefront/internal/api"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/order"
	"storefront/internal/store"
)

// app is the wired client: backend, storage, cart and checkout.
type app struct {
	cfg      *config.Config
	client   *api.Client
	storage  *store.Store
	cart     *cart.Store
	checkout *order.Checkout
}

// newApp wires the client from c. The cart is hydrated from storage before
// it is returned.
func newApp(c *config.Config) *app {
	timer := logging.StartTimer(logging.CategoryBoot, "wire app")
	defer timer.Stop()

	client := api.NewClient(c.API.BaseURL,
		api.WithTimeout(c.GetAPITimeout()),
		api.WithUserAgent(c.API.UserAgent),
	)
	storage := store.Open(c.Storage.Driver, c.Storage.Path)
	crt := cart.New(storage)
	crt.Hydrate()

	return &app{
		cfg:      c,
		client:   client,
		storage:  storage,
		cart:     crt,
		checkout: order.NewCheckout(crt, storage, order.NewSubmitter(client)),
	}
}

func (a *app) pager() *catalog.Pager {
	return catalog.NewPager(a.client, a.cfg.Catalog.PageSize)
}

func (a *app) reviewFeed() *catalog.ReviewFeed {
	return catalog.NewReviewFeed(a.client)
}

// close flushes the cart and releases storage.
func (a *app) close() {
	a.cart.Close()
	a.storage.Close()
}
