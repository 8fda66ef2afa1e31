package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
	"github.com/aswaq/storefront/internal/core/service"
)

// GET v1/cart (200 OK)
// POST v1/cart/items JSON {"product_id" string} (200 OK, 404 Not found)
// PUT v1/cart/items/{id} JSON {"quantity" int} (200 OK)
// DELETE v1/cart/items/{id} (200 OK)

type CartHandler struct {
	cart    *service.Cart
	catalog port.CatalogReader
}

func RegisterCart(
	mux *http.ServeMux, cart *service.Cart, catalog port.CatalogReader,
) {
	h := CartHandler{cart, catalog}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.AddItem)
	mux.HandleFunc("PUT /v1/cart/items/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.RemoveItem)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	h.writeCart(w, log)
}

func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"
	log := slog.With("op", op)

	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.catalog.ProductByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch product", http.StatusServiceUnavailable)
		log.Error("failed to fetch product", "err", err)
		return
	}

	h.cart.Add(p)
	h.writeCart(w, log)
}

func (h CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.UpdateItem"
	log := slog.With("op", op)

	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	h.cart.UpdateQuantity(r.PathValue("id"), req.Quantity)
	h.writeCart(w, log)
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.RemoveItem"
	log := slog.With("op", op)

	h.cart.Remove(r.PathValue("id"))
	h.writeCart(w, log)
}

func (h CartHandler) writeCart(w http.ResponseWriter, log *slog.Logger) {
	items := h.cart.Items()

	rs := make([]CartItem, 0, len(items))
	for _, it := range items {
		rs = append(rs, CartItem{
			Product:   toProduct(it.Product),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal(),
		})
	}

	writeJSON(w, log, CartResponse{
		Items:      rs,
		TotalPrice: h.cart.TotalPrice(),
		TotalItems: h.cart.TotalItems(),
	})
}
