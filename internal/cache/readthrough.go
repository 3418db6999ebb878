package cache

import (
	"context"

	"github.com/harrison/plugdex/internal/github"
	"github.com/harrison/plugdex/internal/models"
)

// Fetcher fetches repository details on a cache miss.
type Fetcher interface {
	RepoDetails(ctx context.Context, key models.RepoKey) (*github.Details, error)
}

// ReadThrough serves repository details from the store, falling back to the
// fetcher and populating the store on a miss. Store read/write errors are
// surfaced; the cache never hides a fetch failure.
type ReadThrough struct {
	store *Store
	fetch Fetcher
}

// NewReadThrough wraps fetch with the given store.
func NewReadThrough(store *Store, fetch Fetcher) *ReadThrough {
	return &ReadThrough{store: store, fetch: fetch}
}

// RepoDetails implements the metadata service contract.
func (r *ReadThrough) RepoDetails(ctx context.Context, key models.RepoKey) (*github.Details, error) {
	cached, ok, err := r.store.Get(key)
	if err != nil {
		return nil, err
	}
	if ok {
		return cached, nil
	}

	details, err := r.fetch.RepoDetails(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := r.store.Put(key, details); err != nil {
		return nil, err
	}

	return details, nil
}
