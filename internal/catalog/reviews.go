package catalog

import (
	"context"
	"sync"

	"storefront/internal/logging"
	"storefront/internal/types"
)

// ReviewSource fetches all reviews. *api.Client satisfies it.
type ReviewSource interface {
	FetchReviews(ctx context.Context) ([]types.Review, error)
}

// ReviewFeed holds the review list and the state of its last load.
type ReviewFeed struct {
	src ReviewSource

	mu      sync.Mutex
	reviews []types.Review
	loading bool
	err     error
}

// NewReviewFeed creates an empty feed.
func NewReviewFeed(src ReviewSource) *ReviewFeed {
	return &ReviewFeed{src: src}
}

// Load (re)fetches the reviews. On failure the previous list is kept.
func (f *ReviewFeed) Load(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.err = nil
	f.mu.Unlock()

	reviews, err := f.src.FetchReviews(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		f.err = err
		logging.Get(logging.CategoryCatalog).Warn("Loading reviews failed: %v", err)
		return err
	}
	f.reviews = reviews
	logging.CatalogDebug("Loaded %d reviews", len(reviews))
	return nil
}

// Reviews returns a copy of the loaded reviews.
func (f *ReviewFeed) Reviews() []types.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Review, len(f.reviews))
	copy(out, f.reviews)
	return out
}

// Loading reports whether a load is in flight.
func (f *ReviewFeed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Err returns the error of the last load, nil after a success.
func (f *ReviewFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
