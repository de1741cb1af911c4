// Package catalog tracks paginated product loading and the review feed on
// top of the API client.
package catalog

import (
	"context"
	"sync"

	"storefront/internal/logging"
	"storefront/internal/types"
)

// DefaultPageSize is the page size the storefront requests.
const DefaultPageSize = 20

// ProductSource fetches one page of products. *api.Client satisfies it.
type ProductSource interface {
	FetchProducts(ctx context.Context, page, pageSize int) (types.ProductPage, error)
}

// HasMore reports whether another page can follow pg: the page must be full
// and must not reach the end of the catalog.
func HasMore(pg types.ProductPage, pageSize int) bool {
	return len(pg.Items) == pageSize && pg.Page*pageSize < pg.Total
}

// Pager accumulates product pages. It is safe for concurrent use, and at most
// one LoadMore is in flight at a time.
type Pager struct {
	src      ProductSource
	pageSize int

	mu           sync.Mutex
	products     []types.Product
	page         int
	hasMore      bool
	loadingFirst bool
	loadingMore  bool
	err          error
}

// NewPager creates a pager. A non-positive pageSize means DefaultPageSize.
func NewPager(src ProductSource, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{src: src, pageSize: pageSize, hasMore: true}
}

// LoadFirst loads page 1 and replaces the product list. On failure the list
// is kept and the error is recorded.
func (p *Pager) LoadFirst(ctx context.Context) error {
	p.mu.Lock()
	p.loadingFirst = true
	p.err = nil
	p.mu.Unlock()

	pg, err := p.src.FetchProducts(ctx, 1, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadingFirst = false
	if err != nil {
		p.err = err
		logging.Get(logging.CategoryCatalog).Warn("Loading first page failed: %v", err)
		return err
	}
	p.products = append([]types.Product(nil), pg.Items...)
	p.page = 1
	p.hasMore = HasMore(pg, p.pageSize)
	logging.Catalog("Loaded page 1: %d products of %d, hasMore=%v", len(pg.Items), pg.Total, p.hasMore)
	return nil
}

// LoadMore fetches the page after the current one and appends it. It returns
// (false, nil) without a request when a load-more is already in flight, the
// first page has not been applied yet, or there is nothing more to load.
//
// The response is appended when it arrives; it is not checked against the
// page expected at that moment.
func (p *Pager) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.loadingMore || p.loadingFirst || p.page == 0 || !p.hasMore {
		p.mu.Unlock()
		return false, nil
	}
	p.loadingMore = true
	next := p.page + 1
	p.mu.Unlock()

	logging.CatalogDebug("Loading page %d", next)
	pg, err := p.src.FetchProducts(ctx, next, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadingMore = false
	if err != nil {
		p.err = err
		logging.Get(logging.CategoryCatalog).Warn("Loading page %d failed: %v", next, err)
		return false, err
	}
	p.products = append(p.products, pg.Items...)
	p.page = next
	p.hasMore = HasMore(pg, p.pageSize)
	logging.Catalog("Loaded page %d: %d products (now %d), hasMore=%v", next, len(pg.Items), len(p.products), p.hasMore)
	return true, nil
}

// Products returns a copy of the loaded products.
func (p *Pager) Products() []types.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.Product, len(p.products))
	copy(out, p.products)
	return out
}

// HasMore reports whether LoadMore may fetch another page.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Page returns the last page applied, 0 before the first load.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Loading reports whether the first page and a further page are in flight.
func (p *Pager) Loading() (first, more bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadingFirst, p.loadingMore
}

// Err returns the error of the last failed load, cleared by LoadFirst.
func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
