package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

const cartStoreKey = "cart"

// Cart owns the browsing session's cart. Entries are persisted as
// identifier+quantity pairs and rehydrated into full products on load.
// No two entries share the same product identifier.
type Cart struct {
	mu      sync.Mutex
	catalog port.CatalogReader
	store   port.LocalStore
	items   []domain.CartItem
}

func NewCart(catalog port.CatalogReader, store port.LocalStore) *Cart {
	return &Cart{catalog: catalog, store: store}
}

// Load reads the persisted id+quantity pairs and rehydrates them.
// Entries whose product no longer resolves are skipped.
func (c *Cart) Load(ctx context.Context) error {
	const op = "Cart.Load"
	log := slog.With("op", op)

	b, err := c.store.Get(cartStoreKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var stored []domain.StoredCartItem
	if err := json.Unmarshal(b, &stored); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	items := make([]domain.CartItem, 0, len(stored))
	for _, s := range stored {
		p, err := c.catalog.ProductByID(ctx, s.ID)
		if err != nil {
			log.Warn("skipping unresolved cart entry", "id", s.ID, "err", err)
			continue
		}
		items = append(items, domain.CartItem{Product: p, Quantity: s.Quantity})
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

func (c *Cart) Add(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity++
			c.persist()
			return
		}
	}
	c.items = append(c.items, domain.CartItem{Product: p, Quantity: 1})
	c.persist()
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
	c.persist()
}

// UpdateQuantity sets the quantity for an existing entry.
// Quantity zero or below removes the entry entirely.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(productID)
		c.persist()
		return
	}
	for i := range c.items {
		if c.items[i].ID == productID {
			c.items[i].Quantity = quantity
			break
		}
	}
	c.persist()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persist()
}

func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CartItem(nil), c.items...)
}

func (c *Cart) TotalPrice() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, it := range c.items {
		total += it.LineTotal()
	}
	return total
}

func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) removeLocked(productID string) {
	for i := range c.items {
		if c.items[i].ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// persist writes the id+quantity projection. Caller holds the lock.
func (c *Cart) persist() {
	const op = "Cart.persist"
	log := slog.With("op", op)

	stored := make([]domain.StoredCartItem, 0, len(c.items))
	for _, it := range c.items {
		stored = append(stored, domain.StoredCartItem{
			ID: it.ID, Quantity: it.Quantity,
		})
	}

	b, err := json.Marshal(stored)
	if err != nil {
		log.Error("failed to marshal cart", "err", err)
		return
	}
	if err := c.store.Put(cartStoreKey, b); err != nil {
		log.Error("failed to save cart", "err", err)
	}
}
