package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

var _ port.CatalogReader = (*MockCatalog)(nil)

// MockCatalog serves the static dataset. It backs the permanent
// fallback mode when no backend is configured, and is the
// substitution source behind the catalog decorator otherwise.
type MockCatalog struct {
	products   []domain.Product
	categories []domain.Category
}

func NewMockCatalog() MockCatalog {
	return MockCatalog{FallbackProducts, FallbackCategories}
}

func (m MockCatalog) ProductByID(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "MockCatalog.ProductByID"

	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}

func (m MockCatalog) ProductsPage(
	ctx context.Context, page, pageSize int, categoryID string,
) ([]domain.Product, error) {
	ps := m.available(categoryID)

	start, end := PageBounds(page, pageSize)
	if start >= len(ps) {
		return nil, nil
	}
	if end >= len(ps) {
		end = len(ps) - 1
	}
	return ps[start : end+1], nil
}

func (m MockCatalog) ProductsByCategory(
	ctx context.Context, categoryID string,
) ([]domain.Product, error) {
	return m.available(categoryID), nil
}

func (m MockCatalog) Search(
	ctx context.Context, query string,
) ([]domain.Product, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	var ps []domain.Product
	for _, p := range m.available("") {
		if len(ps) == searchLimit {
			break
		}
		if isNumeric(q) {
			if p.Barcode == q {
				ps = append(ps, p)
			}
			continue
		}
		if strings.Contains(
			strings.ToLower(p.Name), strings.ToLower(q),
		) {
			ps = append(ps, p)
		}
	}
	return ps, nil
}

func (m MockCatalog) Categories(
	ctx context.Context,
) ([]domain.Category, error) {
	return m.categories, nil
}

func (m MockCatalog) CategoryByID(
	ctx context.Context, id string,
) (domain.Category, error) {
	const op = "MockCatalog.CategoryByID"

	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}

func (m MockCatalog) available(categoryID string) []domain.Product {
	var ps []domain.Product
	for _, p := range m.products {
		if !p.Available {
			continue
		}
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		ps = append(ps, p)
	}
	return ps
}

var _ port.OrderWriter = (*MockOrders)(nil)
var _ port.OrderStatusReader = (*MockOrders)(nil)

// MockOrders keeps orders in memory. Writes are technically
// unavailable in fallback mode, this lets the flow complete in
// development setups.
type MockOrders struct {
	mu         sync.Mutex
	orders     map[string]domain.Order
	items      map[string][]domain.OrderItem
	lastByUser map[string]string
}

func NewMockOrders() *MockOrders {
	return &MockOrders{
		orders:     make(map[string]domain.Order),
		items:      make(map[string][]domain.OrderItem),
		lastByUser: make(map[string]string),
	}
}

func (m *MockOrders) InsertOrderHeader(
	ctx context.Context, o domain.Order,
) (string, error) {
	const op = "MockOrders.InsertOrderHeader"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	o.ID = uuid.NewString()
	m.mu.Lock()
	m.orders[o.ID] = o
	if o.UserID != "" {
		m.lastByUser[o.UserID] = o.ID
	}
	m.mu.Unlock()
	return o.ID, nil
}

func (m *MockOrders) LatestOrderStatus(
	ctx context.Context, userID string,
) (string, error) {
	const op = "MockOrders.LatestOrderStatus"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.lastByUser[userID]
	if !ok {
		return "", fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return m.orders[id].Status, nil
}

func (m *MockOrders) InsertOrderItems(
	ctx context.Context, items []domain.OrderItem,
) error {
	const op = "MockOrders.InsertOrderItems"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		m.items[it.OrderID] = append(m.items[it.OrderID], it)
	}
	return nil
}

func (m *MockOrders) DeleteOrder(ctx context.Context, orderID string) error {
	const op = "MockOrders.DeleteOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[orderID]; ok && m.lastByUser[o.UserID] == orderID {
		delete(m.lastByUser, o.UserID)
	}
	delete(m.orders, orderID)
	delete(m.items, orderID)
	return nil
}
