package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/aswaq/storefront/internal/core/port"
)

// Views hands out one View per listing key, creating it on first
// access with a fresh page-1 result set. Views are shared across
// requests within the session, like the cart.
type Views struct {
	mu      sync.Mutex
	catalog port.CatalogReader
	store   port.SessionStore
	opts    []ViewOpt
	views   map[string]*View
}

func NewViews(
	catalog port.CatalogReader, store port.SessionStore, opts ...ViewOpt,
) *Views {
	return &Views{
		catalog: catalog,
		store:   store,
		opts:    opts,
		views:   make(map[string]*View),
	}
}

// View returns the listing view for the category key, fetching the
// initial page on first access.
func (vs *Views) View(ctx context.Context, categoryID string) (*View, error) {
	const op = "Views.View"

	vs.mu.Lock()
	v, ok := vs.views[categoryID]
	vs.mu.Unlock()
	if ok {
		return v, nil
	}

	initial, err := vs.catalog.ProductsPage(
		ctx, 1, DefaultPageSize, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs.mu.Lock()
	defer vs.mu.Unlock()
	if v, ok := vs.views[categoryID]; ok {
		return v, nil
	}
	v = NewView(vs.catalog, vs.store, categoryID, initial, vs.opts...)
	vs.views[categoryID] = v
	return v, nil
}
