package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
	"github.com/aswaq/storefront/internal/core/service"
)

// GET v1/products?page=N&category_id=ID (200 OK)
// GET v1/products/{id} (200 OK, 404 Not found)
// GET v1/products/search?q=query (200 OK)
// GET v1/categories (200 OK)

type CatalogHandler struct {
	catalog port.CatalogReader
}

func RegisterCatalog(mux *http.ServeMux, catalog port.CatalogReader) {
	h := CatalogHandler{catalog}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/search", h.SearchProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	categoryID := r.URL.Query().Get("category_id")

	ps, err := h.catalog.ProductsPage(
		r.Context(), page, service.DefaultPageSize, categoryID,
	)
	if err != nil {
		http.Error(w, "failed to fetch products", http.StatusServiceUnavailable)
		log.Error("failed to fetch products", "err", err)
		return
	}

	writeJSON(w, log, toProducts(ps))
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.catalog.ProductByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch product", http.StatusServiceUnavailable)
		log.Error("failed to fetch product", "err", err)
		return
	}

	writeJSON(w, log, toProduct(p))
}

func (h CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.SearchProducts"
	log := slog.With("op", op)

	ps, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, "search failed", http.StatusServiceUnavailable)
		log.Error("search failed", "err", err)
		return
	}

	writeJSON(w, log, toProducts(ps))
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategories"
	log := slog.With("op", op)

	cs, err := h.catalog.Categories(r.Context())
	if err != nil {
		http.Error(w, "failed to fetch categories", http.StatusServiceUnavailable)
		log.Error("failed to fetch categories", "err", err)
		return
	}

	rs := make([]Category, 0, len(cs))
	for _, c := range cs {
		rs = append(rs, Category{ID: c.ID, Name: c.Name, Icon: c.Icon})
	}
	writeJSON(w, log, rs)
}

func toProduct(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		ImageAlt:    p.ImageAlt,
		CategoryID:  p.CategoryID,
		Stock:       p.Stock,
		Available:   p.Available,
	}
}

func toProducts(ps []domain.Product) []Product {
	rs := make([]Product, 0, len(ps))
	for _, p := range ps {
		rs = append(rs, toProduct(p))
	}
	return rs
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
