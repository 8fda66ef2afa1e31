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

// POST v1/orders JSON {"notes" string, "phone" string}
// (201 Created, 400 Bad request, 401 Unauthorized, 503 Service unavailable)
// GET v1/orders/latest-status (200 OK, 401 Unauthorized, 404 Not found)

type OrdersHandler struct {
	orders service.Orders
	cart   *service.Cart
	auth   *service.Auth
	status port.OrderStatusReader
}

func RegisterOrders(
	mux *http.ServeMux,
	orders service.Orders,
	cart *service.Cart,
	auth *service.Auth,
	status port.OrderStatusReader,
) {
	h := OrdersHandler{orders, cart, auth, status}
	mux.HandleFunc("POST /v1/orders", h.PostOrder)
	mux.HandleFunc("GET /v1/orders/latest-status", h.GetLatestStatus)
}

func (h OrdersHandler) PostOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.PostOrder"
	log := slog.With("op", op)

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	user := h.auth.User(r.Context())
	if user.IsZero() {
		http.Error(w, "sign in required", http.StatusUnauthorized)
		return
	}

	phone := req.Phone
	if phone == "" {
		phone = user.Phone
	}
	if phone == "" {
		http.Error(w, "contact phone is required", http.StatusBadRequest)
		return
	}

	items := h.cart.Items()
	if len(items) == 0 {
		http.Error(w, "cart is empty", http.StatusBadRequest)
		return
	}

	err := h.orders.Submit(r.Context(), service.SubmitOrderParams{
		User:  user,
		Items: items,
		Notes: req.Notes,
		Phone: phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotSignedIn) {
			http.Error(w, "sign in required", http.StatusUnauthorized)
			return
		}
		http.Error(
			w, "failed to place order", http.StatusServiceUnavailable,
		)
		log.Error("failed to place order", "err", err)
		return
	}

	h.cart.Clear()

	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write([]byte("Created")); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h OrdersHandler) GetLatestStatus(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetLatestStatus"
	log := slog.With("op", op)

	user := h.auth.User(r.Context())
	if user.IsZero() {
		http.Error(w, "sign in required", http.StatusUnauthorized)
		return
	}

	status, err := h.status.LatestOrderStatus(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "no orders", http.StatusNotFound)
			return
		}
		http.Error(
			w, "failed to fetch order status", http.StatusServiceUnavailable,
		)
		log.Error("failed to fetch order status", "err", err)
		return
	}

	writeJSON(w, log, OrderStatusResponse{Status: status})
}
