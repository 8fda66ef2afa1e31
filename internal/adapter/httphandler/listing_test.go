package httphandler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswaq/storefront/internal/adapter/backend"
	"github.com/aswaq/storefront/internal/adapter/httphandler"
	"github.com/aswaq/storefront/internal/adapter/sessionstore"
	"github.com/aswaq/storefront/internal/core/service"
)

func newListingMux(t *testing.T) *http.ServeMux {
	t.Helper()

	views := service.NewViews(
		backend.NewMockCatalog(), sessionstore.New(0),
		service.ViewDebounceOpt(time.Millisecond),
	)
	mux := http.NewServeMux()
	httphandler.RegisterListing(mux, views)
	return mux
}

func getListing(
	t *testing.T, mux *http.ServeMux, method, target, body string,
) httphandler.ListingResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))

	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.ListingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListingHandler(t *testing.T) {

	t.Run("GetListing", func(t *testing.T) {
		mux := newListingMux(t)

		resp := getListing(t, mux, http.MethodGet, "/v1/listing", "")

		assert.Len(t, resp.Products, 3)
		assert.Equal(t, 1, resp.Page)
		assert.True(t, resp.HasMore)
	})

	t.Run("LoadMoreExhausts", func(t *testing.T) {
		mux := newListingMux(t)

		resp := getListing(t, mux, http.MethodPost, "/v1/listing/load-more", "")

		assert.Len(t, resp.Products, 3)
		assert.False(t, resp.HasMore)
	})

	t.Run("SearchAndClear", func(t *testing.T) {
		mux := newListingMux(t)

		getListing(t, mux, http.MethodPut, "/v1/listing/query",
			`{"q":"third"}`)
		require.Eventually(t, func() bool {
			resp := getListing(t, mux, http.MethodGet, "/v1/listing", "")
			return len(resp.Products) == 1 && resp.Products[0].ID == "3"
		}, 2*time.Second, 10*time.Millisecond)

		getListing(t, mux, http.MethodPut, "/v1/listing/query", `{"q":""}`)
		require.Eventually(t, func() bool {
			resp := getListing(t, mux, http.MethodGet, "/v1/listing", "")
			return len(resp.Products) == 3 && resp.HasMore
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("CategoryListing", func(t *testing.T) {
		mux := newListingMux(t)

		resp := getListing(
			t, mux, http.MethodGet, "/v1/listing?category_id=2", "",
		)

		require.Len(t, resp.Products, 1)
		assert.Equal(t, "2", resp.Products[0].CategoryID)
	})

	t.Run("Refresh", func(t *testing.T) {
		mux := newListingMux(t)

		getListing(t, mux, http.MethodPost, "/v1/listing/load-more", "")
		resp := getListing(t, mux, http.MethodPost, "/v1/listing/refresh", "")

		assert.Equal(t, 1, resp.Page)
		assert.True(t, resp.HasMore)
	})
}
