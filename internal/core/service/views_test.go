package service_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswaq/storefront/internal/adapter/sessionstore"
	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/service"
)

func TestViews(t *testing.T) {

	t.Run("FirstAccessFetchesInitialPage", func(t *testing.T) {
		catalog := &stubCatalog{
			pageFn: func(page, pageSize int, categoryID string) ([]domain.Product, error) {
				return makeProducts(3, categoryID+"p"), nil
			},
		}
		views := service.NewViews(catalog, sessionstore.New(0))

		v, err := views.View(t.Context(), "")
		require.NoError(t, err)

		assert.Len(t, v.Products(), 3)
		assert.Equal(t, 1, v.Page())
		assert.Equal(t, 1, catalog.nPageCalls())
	})

	t.Run("ReusesViewPerKey", func(t *testing.T) {
		catalog := &stubCatalog{
			pageFn: func(page, pageSize int, categoryID string) ([]domain.Product, error) {
				return makeProducts(2, "p"), nil
			},
		}
		views := service.NewViews(catalog, sessionstore.New(0))

		first, err := views.View(t.Context(), "42")
		require.NoError(t, err)
		second, err := views.View(t.Context(), "42")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, catalog.nPageCalls())
	})

	t.Run("DistinctKeysGetDistinctViews", func(t *testing.T) {
		catalog := &stubCatalog{
			pageFn: func(page, pageSize int, categoryID string) ([]domain.Product, error) {
				return makeProducts(1, categoryID+"p"), nil
			},
		}
		views := service.NewViews(catalog, sessionstore.New(0))

		home, err := views.View(t.Context(), "")
		require.NoError(t, err)
		category, err := views.View(t.Context(), "1")
		require.NoError(t, err)

		assert.NotSame(t, home, category)
		assert.NotEqual(t, productIDs(home.Products()), productIDs(category.Products()))
	})

	t.Run("InitialFetchFailure", func(t *testing.T) {
		catalog := &stubCatalog{
			pageFn: func(page, pageSize int, categoryID string) ([]domain.Product, error) {
				return nil, fmt.Errorf("backend is down")
			},
		}
		views := service.NewViews(catalog, sessionstore.New(0))

		_, err := views.View(t.Context(), "")
		require.Error(t, err)
	})
}
