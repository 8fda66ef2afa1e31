package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswaq/storefront/internal/adapter/sessionstore"
	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/service"
)

type stubCatalog struct {
	mu        sync.Mutex
	pageFn    func(page, pageSize int, categoryID string) ([]domain.Product, error)
	searchFn  func(query string) ([]domain.Product, error)
	pageCalls int
}

func (s *stubCatalog) ProductByID(
	ctx context.Context, id string,
) (domain.Product, error) {
	return domain.Product{}, domain.ErrNotFound
}

func (s *stubCatalog) ProductsPage(
	ctx context.Context, page, pageSize int, categoryID string,
) ([]domain.Product, error) {
	s.mu.Lock()
	s.pageCalls++
	fn := s.pageFn
	s.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(page, pageSize, categoryID)
}

func (s *stubCatalog) ProductsByCategory(
	ctx context.Context, categoryID string,
) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubCatalog) Search(
	ctx context.Context, query string,
) ([]domain.Product, error) {
	s.mu.Lock()
	fn := s.searchFn
	s.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(query)
}

func (s *stubCatalog) Categories(
	ctx context.Context,
) ([]domain.Category, error) {
	return nil, nil
}

func (s *stubCatalog) CategoryByID(
	ctx context.Context, id string,
) (domain.Category, error) {
	return domain.Category{}, domain.ErrNotFound
}

func (s *stubCatalog) nPageCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageCalls
}

func makeProducts(n int, prefix string) []domain.Product {
	ps := make([]domain.Product, 0, n)
	for i := 1; i <= n; i++ {
		ps = append(ps, domain.Product{
			ID:        fmt.Sprintf("%s%d", prefix, i),
			Name:      fmt.Sprintf("Product %s%d", prefix, i),
			Price:     100,
			Available: true,
		})
	}
	return ps
}

func productIDs(ps []domain.Product) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestViewCache(t *testing.T) {

	t.Run("AdoptsFreshEntry", func(t *testing.T) {
		store := sessionstore.New(0)
		cached := makeProducts(30, "c")
		seedCache(t, store, "products_cache_home", cached, time.Now())

		v := service.NewView(&stubCatalog{}, store, "", makeProducts(2, "i"))

		assert.Len(t, v.Products(), 30)
		assert.Equal(t, 2, v.Page())
	})

	t.Run("IgnoresExpiredEntry", func(t *testing.T) {
		store := sessionstore.New(0)
		cached := makeProducts(30, "c")
		seedCache(t, store, "products_cache_home", cached,
			time.Now().Add(-20*time.Second))

		initial := makeProducts(2, "i")
		v := service.NewView(&stubCatalog{}, store, "", initial)

		assert.Equal(t, productIDs(initial), productIDs(v.Products()))
		assert.Equal(t, 1, v.Page())
	})

	t.Run("KeyedByCategory", func(t *testing.T) {
		store := sessionstore.New(0)
		cached := makeProducts(5, "c")
		seedCache(t, store, "products_cache_42", cached, time.Now())

		v := service.NewView(&stubCatalog{}, store, "42", nil)

		assert.Len(t, v.Products(), 5)
	})

	t.Run("TrimsPersistedEntry", func(t *testing.T) {
		store := sessionstore.New(0)
		initial := makeProducts(60, "p")
		for i := range initial {
			initial[i].Description = strings.Repeat("x", 150)
			initial[i].Image = "data:image/png;base64,AAAA"
		}

		service.NewView(&stubCatalog{}, store, "", initial)

		raw, ok := store.Get("products_cache_home")
		require.True(t, ok)

		var cached []map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &cached))
		require.Len(t, cached, 50)
		for _, c := range cached {
			assert.LessOrEqual(t, len(c["description"].(string)), 100)
			assert.Equal(t, domain.PlaceholderImage, c["image"])
		}
	})

	t.Run("QuotaFailureDropsEntry", func(t *testing.T) {
		store := sessionstore.New(10)

		service.NewView(&stubCatalog{}, store, "", makeProducts(5, "p"))

		_, ok := store.Get("products_cache_home")
		assert.False(t, ok)
		_, ok = store.Get("products_cache_home_ts")
		assert.False(t, ok)
	})
}

func TestViewLoadMore(t *testing.T) {

	t.Run("DeduplicatesAndAdvances", func(t *testing.T) {
		catalog := &stubCatalog{
			pageFn: func(page, pageSize int, categoryID string) ([]domain.Product, error) {
				return []domain.Product{
					{ID: "p2", Available: true},
					{ID: "p3", Available: true},
				}, nil
			},
		}
		v := service.NewView(catalog, sessionstore.New(0), "",
			[]domain.Product{{ID: "p1"}, {ID: "p2"}})

		v.LoadMore(t.Context())

		assert.Equal(t, []string{"p1", "p2", "p3"}, productIDs(v.Products()))
		assert.Equal(t, 2, v.Page())
	})

	t.Run("EmptyPageExhaustsPagination", func(t *testing.T) {
		catalog := &stubCatalog{}
		v := service.NewView(catalog, sessionstore.New(0), "",
			makeProducts(2, "p"))

		v.LoadMore(t.Context())
		require.False(t, v.HasMore())

		v.LoadMore(t.Context())
		v.SentinelVisible(t.Context())
		assert.Equal(t, 1, catalog.nPageCalls())
	})

	t.Run("FetchFailureLeavesStateUnchanged", func(t *testing.T) {
		catalog := &stubCatalog{
			pageFn: func(page, pageSize int, categoryID string) ([]domain.Product, error) {
				return nil, fmt.Errorf("backend is down")
			},
		}
		initial := makeProducts(2, "p")
		v := service.NewView(catalog, sessionstore.New(0), "", initial)

		v.LoadMore(t.Context())

		assert.Equal(t, productIDs(initial), productIDs(v.Products()))
		assert.Equal(t, 1, v.Page())
		assert.True(t, v.HasMore())
	})

	t.Run("NoOpWhileSearchActive", func(t *testing.T) {
		catalog := &stubCatalog{}
		v := service.NewView(catalog, sessionstore.New(0), "",
			makeProducts(2, "p"),
			service.ViewDebounceOpt(time.Hour))

		v.SetQuery(t.Context(), "shoes")
		v.LoadMore(t.Context())
		v.SentinelVisible(t.Context())

		assert.Zero(t, catalog.nPageCalls())
	})
}

func TestViewSearch(t *testing.T) {

	t.Run("DebouncedDispatchAndRestore", func(t *testing.T) {
		searched := []domain.Product{{ID: "s1", Available: true}}
		catalog := &stubCatalog{
			pageFn: func(page, pageSize int, categoryID string) ([]domain.Product, error) {
				return []domain.Product{{ID: "p2", Available: true}}, nil
			},
			searchFn: func(query string) ([]domain.Product, error) {
				return searched, nil
			},
		}
		v := service.NewView(catalog, sessionstore.New(0), "",
			[]domain.Product{{ID: "p1"}},
			service.ViewDebounceOpt(5*time.Millisecond))

		v.LoadMore(t.Context())
		require.Equal(t, []string{"p1", "p2"}, productIDs(v.Products()))
		require.Equal(t, 2, v.Page())

		v.SetQuery(t.Context(), "shoes")
		require.Eventually(t, func() bool {
			ids := productIDs(v.Products())
			return len(ids) == 1 && ids[0] == "s1"
		}, 2*time.Second, 10*time.Millisecond)
		assert.False(t, v.HasMore())

		v.SetQuery(t.Context(), "")
		require.Eventually(t, func() bool {
			ids := productIDs(v.Products())
			return len(ids) == 2 && ids[0] == "p1" && ids[1] == "p2"
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, 2, v.Page())
		assert.True(t, v.HasMore())
	})

	t.Run("StaleResponseDiscarded", func(t *testing.T) {
		catalog := &stubCatalog{
			searchFn: func(query string) ([]domain.Product, error) {
				if query == "slow" {
					time.Sleep(80 * time.Millisecond)
					return []domain.Product{{ID: "stale"}}, nil
				}
				return []domain.Product{{ID: "fresh"}}, nil
			},
		}
		v := service.NewView(catalog, sessionstore.New(0), "",
			makeProducts(1, "p"),
			service.ViewDebounceOpt(time.Millisecond))

		v.SetQuery(t.Context(), "slow")
		time.Sleep(20 * time.Millisecond) // slow dispatch is in flight
		v.SetQuery(t.Context(), "fast")

		require.Eventually(t, func() bool {
			ids := productIDs(v.Products())
			return len(ids) == 1 && ids[0] == "fresh"
		}, 2*time.Second, 10*time.Millisecond)

		time.Sleep(120 * time.Millisecond)
		assert.Equal(t, []string{"fresh"}, productIDs(v.Products()))
	})

	t.Run("ResultsAreNeverCached", func(t *testing.T) {
		store := sessionstore.New(0)
		catalog := &stubCatalog{
			searchFn: func(query string) ([]domain.Product, error) {
				return []domain.Product{{ID: "s1", Name: "searched"}}, nil
			},
		}
		v := service.NewView(catalog, store, "",
			[]domain.Product{{ID: "p1", Name: "initial"}},
			service.ViewDebounceOpt(time.Millisecond))

		v.SetQuery(t.Context(), "shoes")
		require.Eventually(t, func() bool {
			ids := productIDs(v.Products())
			return len(ids) == 1 && ids[0] == "s1"
		}, 2*time.Second, 10*time.Millisecond)

		raw, ok := store.Get("products_cache_home")
		require.True(t, ok)
		assert.NotContains(t, raw, "searched")
	})
}

func TestViewRefresh(t *testing.T) {
	refreshed := []domain.Product{{ID: "r1", Available: true}}
	catalog := &stubCatalog{
		pageFn: func(page, pageSize int, categoryID string) ([]domain.Product, error) {
			if page == 1 {
				return refreshed, nil
			}
			return []domain.Product{{ID: "p2", Available: true}}, nil
		},
	}
	store := sessionstore.New(0)
	v := service.NewView(catalog, store, "", []domain.Product{{ID: "p1"}},
		service.ViewDebounceOpt(time.Hour))

	v.LoadMore(t.Context())
	v.SetQuery(t.Context(), "shoes")

	v.Refresh(t.Context())

	assert.Equal(t, []string{"r1"}, productIDs(v.Products()))
	assert.Equal(t, 1, v.Page())
	assert.True(t, v.HasMore())
	assert.False(t, v.Searching())
}

func seedCache(
	t *testing.T,
	store *sessionstore.Store,
	key string,
	ps []domain.Product,
	ts time.Time,
) {
	t.Helper()

	type cachedProduct struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Price       int64  `json:"price"`
		Image       string `json:"image"`
		ImageAlt    string `json:"image_alt"`
		CategoryID  string `json:"category_id"`
		Stock       int    `json:"stock"`
		Description string `json:"description"`
	}

	cached := make([]cachedProduct, 0, len(ps))
	for _, p := range ps {
		cached = append(cached, cachedProduct{
			ID: p.ID, Name: p.Name, Price: p.Price,
			Image: p.Image, ImageAlt: p.ImageAlt,
			CategoryID: p.CategoryID, Stock: p.Stock,
			Description: p.Description,
		})
	}
	b, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, store.Set(key, string(b)))
	require.NoError(t, store.Set(
		key+"_ts", fmt.Sprintf("%d", ts.UnixMilli()),
	))
}
