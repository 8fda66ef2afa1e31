package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

const (
	DefaultPageSize = 20

	cacheKeyPrefix  = "products_cache_"
	cacheTTL        = 15 * time.Second
	cacheMaxItems   = 50
	cacheMaxDescLen = 100

	searchDebounce = 500 * time.Millisecond
)

// cachedProduct is the trimmed projection persisted per view,
// kept small to avoid storage-quota failures.
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

type viewSnapshot struct {
	products []domain.Product
	page     int
	hasMore  bool
}

// A View drives one product listing: a session cache keyed by
// category, infinite-scroll pagination and the search overlay.
type View struct {
	mu         sync.Mutex
	catalog    port.CatalogReader
	store      port.SessionStore
	categoryID string
	initial    []domain.Product

	products []domain.Product
	page     int
	pageSize int
	hasMore  bool
	loading  bool

	query     string
	searching bool
	searchSeq uint64
	preSearch *viewSnapshot
	timer     *time.Timer

	debounce time.Duration
	now      func() time.Time
}

type ViewOpt func(*View)

func ViewPageSizeOpt(n int) ViewOpt {
	return func(v *View) {
		if n > 0 {
			v.pageSize = n
		}
	}
}

func ViewDebounceOpt(d time.Duration) ViewOpt {
	return func(v *View) { v.debounce = d }
}

func ViewClockOpt(now func() time.Time) ViewOpt {
	return func(v *View) {
		if now != nil {
			v.now = now
		}
	}
}

// NewView adopts a fresh cache entry for its key when one exists,
// otherwise it starts from the supplied page-1 result set.
func NewView(
	catalog port.CatalogReader,
	store port.SessionStore,
	categoryID string,
	initial []domain.Product,
	opts ...ViewOpt,
) *View {
	v := &View{
		catalog:    catalog,
		store:      store,
		categoryID: categoryID,
		initial:    cloneProducts(initial),
		products:   cloneProducts(initial),
		page:       1,
		pageSize:   DefaultPageSize,
		hasMore:    true,
		debounce:   searchDebounce,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.adoptCache()
	v.persistCache()
	return v
}

func (v *View) cacheKey() string {
	key := v.categoryID
	if key == "" {
		key = "home"
	}
	return cacheKeyPrefix + key
}

func (v *View) tsKey() string {
	return v.cacheKey() + "_ts"
}

func (v *View) adoptCache() {
	const op = "View.adoptCache"
	log := slog.With("op", op)

	if v.query != "" {
		return
	}

	data, ok := v.store.Get(v.cacheKey())
	if !ok {
		return
	}
	tsRaw, ok := v.store.Get(v.tsKey())
	if !ok {
		return
	}

	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return
	}
	age := v.now().Sub(time.UnixMilli(ts))
	if age >= cacheTTL {
		return
	}

	var cached []cachedProduct
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		log.Warn("cache parse error", "err", err)
		return
	}
	if len(cached) == 0 {
		return
	}

	v.products = make([]domain.Product, 0, len(cached))
	for _, c := range cached {
		v.products = append(v.products, domain.Product{
			ID:          c.ID,
			Name:        c.Name,
			Price:       c.Price,
			Image:       c.Image,
			ImageAlt:    c.ImageAlt,
			CategoryID:  c.CategoryID,
			Stock:       c.Stock,
			Description: c.Description,
			Available:   true,
		})
	}
	v.page = (len(cached) + v.pageSize - 1) / v.pageSize
	log.Debug("restored from cache", "key", v.cacheKey(), "n", len(cached))
}

// persistCache writes a trimmed projection of the working set.
// A failed write drops the entry rather than leaving a partial one.
// Search results are never cached.
func (v *View) persistCache() {
	const op = "View.persistCache"
	log := slog.With("op", op)

	if v.query != "" || len(v.products) == 0 {
		return
	}

	n := min(len(v.products), cacheMaxItems)
	cached := make([]cachedProduct, 0, n)
	for _, p := range v.products[:n] {
		cached = append(cached, cachedProduct{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Image:       cacheableImage(p.Image),
			ImageAlt:    p.ImageAlt,
			CategoryID:  p.CategoryID,
			Stock:       p.Stock,
			Description: truncate(p.Description, cacheMaxDescLen),
		})
	}

	b, err := json.Marshal(cached)
	if err != nil {
		log.Warn("failed to marshal cache entry", "err", err)
		return
	}

	ts := strconv.FormatInt(v.now().UnixMilli(), 10)
	if err := v.store.Set(v.cacheKey(), string(b)); err != nil {
		log.Warn("cache write failed, clearing entry", "err", err)
		v.dropCache()
		return
	}
	if err := v.store.Set(v.tsKey(), ts); err != nil {
		log.Warn("cache write failed, clearing entry", "err", err)
		v.dropCache()
	}
}

func (v *View) dropCache() {
	v.store.Delete(v.cacheKey())
	v.store.Delete(v.tsKey())
}

// LoadMore fetches the next page and appends products not already
// present. No-op while loading, after exhaustion, or during search.
// An empty page marks the end of results for this session.
func (v *View) LoadMore(ctx context.Context) {
	const op = "View.LoadMore"
	log := slog.With("op", op)

	v.mu.Lock()
	if v.loading || !v.hasMore || v.query != "" {
		v.mu.Unlock()
		return
	}
	v.loading = true
	nextPage := v.page + 1
	v.mu.Unlock()

	ps, err := v.catalog.ProductsPage(ctx, nextPage, v.pageSize, v.categoryID)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false

	if err != nil {
		log.Error("failed to load next page", "page", nextPage, "err", err)
		return
	}

	if len(ps) == 0 {
		v.hasMore = false
		return
	}

	existing := make(map[string]struct{}, len(v.products))
	for _, p := range v.products {
		existing[p.ID] = struct{}{}
	}
	for _, p := range ps {
		if _, ok := existing[p.ID]; ok {
			continue
		}
		v.products = append(v.products, p)
	}
	v.page = nextPage
	v.persistCache()
}

// SentinelVisible is the viewport-intersection trigger near the
// end of the rendered list.
func (v *View) SentinelVisible(ctx context.Context) {
	v.mu.Lock()
	skip := v.loading || !v.hasMore || v.query != ""
	v.mu.Unlock()
	if skip {
		return
	}
	v.LoadMore(ctx)
}

// SetQuery restarts the debounce timer; only the timer that survives
// uninterrupted dispatches a search. Each dispatch carries a sequence
// number so a stale slow response cannot overwrite a newer one.
func (v *View) SetQuery(ctx context.Context, query string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.query = query
	v.searchSeq++
	seq := v.searchSeq

	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.debounce, func() {
		v.dispatchSearch(ctx, query, seq)
	})
}

func (v *View) dispatchSearch(ctx context.Context, query string, seq uint64) {
	const op = "View.dispatchSearch"
	log := slog.With("op", op)

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		v.mu.Lock()
		defer v.mu.Unlock()
		if seq != v.searchSeq {
			return
		}
		v.restorePreSearch()
		return
	}

	v.mu.Lock()
	if seq != v.searchSeq {
		v.mu.Unlock()
		return
	}
	if v.preSearch == nil {
		v.preSearch = &viewSnapshot{
			products: cloneProducts(v.products),
			page:     v.page,
			hasMore:  v.hasMore,
		}
	}
	v.searching = true
	v.hasMore = false // pagination is suspended while searching
	v.mu.Unlock()

	results, err := v.catalog.Search(ctx, trimmed)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.searchSeq {
		return // stale response, a newer dispatch owns the view
	}
	v.searching = false
	if err != nil {
		log.Error("search failed", "err", err)
		return
	}
	v.products = results
}

// restorePreSearch reinstates the exact result set and page number
// that existed before the search began. Caller holds the lock.
func (v *View) restorePreSearch() {
	if v.preSearch != nil {
		v.products = v.preSearch.products
		v.page = v.preSearch.page
		v.hasMore = v.preSearch.hasMore
		v.preSearch = nil
	} else {
		v.products = cloneProducts(v.initial)
		v.page = 1
		v.hasMore = true
	}
	v.searching = false
}

// Refresh clears the cache entry for the current key, resets to a
// fresh page-1 result set and clears any active search.
func (v *View) Refresh(ctx context.Context) {
	const op = "View.Refresh"
	log := slog.With("op", op)

	ps, err := v.catalog.ProductsPage(ctx, 1, v.pageSize, v.categoryID)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.dropCache()
	if v.timer != nil {
		v.timer.Stop()
	}
	v.query = ""
	v.searchSeq++
	v.preSearch = nil
	v.searching = false

	if err != nil {
		log.Error("failed to refresh", "err", err)
		ps = cloneProducts(v.initial)
	}
	v.products = ps
	v.initial = cloneProducts(ps)
	v.page = 1
	v.hasMore = true
	v.persistCache()
}

func (v *View) Products() []domain.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneProducts(v.products)
}

func (v *View) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

func (v *View) HasMore() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasMore
}

func (v *View) Searching() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searching
}

func cacheableImage(image string) string {
	// inline binary images are replaced, only URL references are cached
	if strings.HasPrefix(image, "data:") {
		return domain.PlaceholderImage
	}
	return image
}

func truncate(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

func cloneProducts(ps []domain.Product) []domain.Product {
	return append([]domain.Product(nil), ps...)
}
