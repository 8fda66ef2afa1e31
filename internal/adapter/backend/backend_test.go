package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswaq/storefront/internal/adapter/backend"
	"github.com/aswaq/storefront/internal/core/domain"
)

func TestPageBounds(t *testing.T) {
	tests := []struct {
		page, pageSize int
		start, end     int
	}{
		{1, 20, 0, 19},
		{2, 20, 20, 39},
		{3, 10, 20, 29},
		{1, 1, 0, 0},
	}

	for _, tc := range tests {
		start, end := backend.PageBounds(tc.page, tc.pageSize)
		assert.Equal(t, tc.start, start)
		assert.Equal(t, tc.end, end)
	}
}

func TestMockCatalog(t *testing.T) {
	catalog := backend.NewMockCatalog()

	t.Run("ProductByID", func(t *testing.T) {
		p, err := catalog.ProductByID(t.Context(), "1")
		require.NoError(t, err)
		assert.Equal(t, "Sample Product 1", p.Name)

		_, err = catalog.ProductByID(t.Context(), "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ProductsPage", func(t *testing.T) {
		ps, err := catalog.ProductsPage(t.Context(), 1, 2, "")
		require.NoError(t, err)
		assert.Len(t, ps, 2)

		ps, err = catalog.ProductsPage(t.Context(), 2, 2, "")
		require.NoError(t, err)
		assert.Len(t, ps, 1)

		ps, err = catalog.ProductsPage(t.Context(), 3, 2, "")
		require.NoError(t, err)
		assert.Empty(t, ps)
	})

	t.Run("ProductsPageFiltersCategory", func(t *testing.T) {
		ps, err := catalog.ProductsPage(t.Context(), 1, 20, "1")
		require.NoError(t, err)
		require.Len(t, ps, 2)
		for _, p := range ps {
			assert.Equal(t, "1", p.CategoryID)
		}
	})

	t.Run("SearchByBarcode", func(t *testing.T) {
		ps, err := catalog.Search(t.Context(), "1000000000002")
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, "2", ps[0].ID)

		// digits never match by name
		ps, err = catalog.Search(t.Context(), "999")
		require.NoError(t, err)
		assert.Empty(t, ps)
	})

	t.Run("SearchByName", func(t *testing.T) {
		ps, err := catalog.Search(t.Context(), "SAMPLE")
		require.NoError(t, err)
		assert.Len(t, ps, 3)

		ps, err = catalog.Search(t.Context(), "third")
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, "3", ps[0].ID)
	})

	t.Run("SearchEmptyQuery", func(t *testing.T) {
		ps, err := catalog.Search(t.Context(), "   ")
		require.NoError(t, err)
		assert.Empty(t, ps)
	})

	t.Run("Categories", func(t *testing.T) {
		cs, err := catalog.Categories(t.Context())
		require.NoError(t, err)
		assert.Len(t, cs, 3)

		c, err := catalog.CategoryByID(t.Context(), "2")
		require.NoError(t, err)
		assert.Equal(t, "Clothing", c.Name)

		_, err = catalog.CategoryByID(t.Context(), "9")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMockOrders(t *testing.T) {
	orders := backend.NewMockOrders()

	id, err := orders.InsertOrderHeader(t.Context(), domain.Order{
		TotalAmount:   2500,
		Status:        domain.OrderStatusPending,
		CustomerName:  "Test Buyer",
		CustomerPhone: "+10000000001",
		UserID:        "user-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	err = orders.InsertOrderItems(t.Context(), []domain.OrderItem{
		{OrderID: id, ProductID: "1", Quantity: 2, UnitPrice: 1000, TotalPrice: 2000},
	})
	require.NoError(t, err)

	status, err := orders.LatestOrderStatus(t.Context(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, status)

	_, err = orders.LatestOrderStatus(t.Context(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, orders.DeleteOrder(t.Context(), id))

	_, err = orders.LatestOrderStatus(t.Context(), "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
