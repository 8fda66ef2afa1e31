package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

var _ port.CatalogReader = (*Catalog)(nil)

// Catalog decorates a backend reader with fallback substitution:
// transient backend errors degrade to a static built-in dataset so
// read paths never surface a hard failure. A confirmed absence
// (domain.ErrNotFound) is never substituted.
type Catalog struct {
	backend  port.CatalogReader
	fallback port.CatalogReader
	events   port.EventsProducer
}

func NewCatalog(
	backend, fallback port.CatalogReader, events port.EventsProducer,
) Catalog {
	return Catalog{backend, fallback, events}
}

func (c Catalog) ProductByID(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "Catalog.ProductByID"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := c.backend.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		log.Warn("backend read failed, using fallback", "id", id, "err", err)
		return c.fallback.ProductByID(ctx, id)
	}

	c.emit(ctx, domain.ClientEvent{
		Type: domain.EventProductView, ProductID: id,
	})
	return p, nil
}

func (c Catalog) ProductsPage(
	ctx context.Context, page, pageSize int, categoryID string,
) ([]domain.Product, error) {
	const op = "Catalog.ProductsPage"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := c.backend.ProductsPage(ctx, page, pageSize, categoryID)
	if err != nil {
		log.Warn("backend read failed, using fallback", "page", page, "err", err)
		return c.fallback.ProductsPage(ctx, page, pageSize, categoryID)
	}
	return ps, nil
}

func (c Catalog) ProductsByCategory(
	ctx context.Context, categoryID string,
) ([]domain.Product, error) {
	const op = "Catalog.ProductsByCategory"
	log := slog.With("op", op)

	// guard against malformed identifiers reaching the backend
	if !validCategoryID(categoryID) {
		return nil, nil
	}

	ps, err := c.backend.ProductsByCategory(ctx, categoryID)
	if err != nil {
		log.Warn("backend read failed, using fallback",
			"categoryID", categoryID, "err", err)
		return c.fallback.ProductsByCategory(ctx, categoryID)
	}
	return ps, nil
}

func (c Catalog) Search(
	ctx context.Context, query string,
) ([]domain.Product, error) {
	const op = "Catalog.Search"
	log := slog.With("op", op)

	// empty query yields an empty result without a backend call
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	ps, err := c.backend.Search(ctx, query)
	if err != nil {
		log.Warn("search failed", "err", err)
		return nil, nil
	}

	c.emit(ctx, domain.ClientEvent{
		Type: domain.EventSearch, Query: query,
	})
	return ps, nil
}

func (c Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	const op = "Catalog.Categories"
	log := slog.With("op", op)

	cs, err := c.backend.Categories(ctx)
	if err != nil {
		log.Warn("backend read failed, using fallback", "err", err)
		return c.fallback.Categories(ctx)
	}
	return cs, nil
}

func (c Catalog) CategoryByID(
	ctx context.Context, id string,
) (domain.Category, error) {
	const op = "Catalog.CategoryByID"
	log := slog.With("op", op)

	if !validCategoryID(id) {
		return domain.Category{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	cat, err := c.backend.CategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Category{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		log.Warn("backend read failed, using fallback", "id", id, "err", err)
		return c.fallback.CategoryByID(ctx, id)
	}
	return cat, nil
}

func (c Catalog) emit(ctx context.Context, evt domain.ClientEvent) {
	const op = "Catalog.emit"

	if c.events == nil {
		return
	}
	evt.At = time.Now()
	if err := c.events.ProduceEvent(ctx, evt); err != nil {
		slog.Warn("failed to produce client event", "op", op, "err", err)
	}
}

func validCategoryID(id string) bool {
	return id != "" && id != "undefined"
}
