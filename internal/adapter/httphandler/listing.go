package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aswaq/storefront/internal/core/service"
)

// GET v1/listing?category_id=ID (200 OK)
// POST v1/listing/load-more?category_id=ID (200 OK)
// PUT v1/listing/query?category_id=ID JSON {"q" string} (200 OK)
// POST v1/listing/refresh?category_id=ID (200 OK)

type ListingHandler struct {
	views *service.Views
}

func RegisterListing(mux *http.ServeMux, views *service.Views) {
	h := ListingHandler{views}
	mux.HandleFunc("GET /v1/listing", h.GetListing)
	mux.HandleFunc("POST /v1/listing/load-more", h.LoadMore)
	mux.HandleFunc("PUT /v1/listing/query", h.SetQuery)
	mux.HandleFunc("POST /v1/listing/refresh", h.Refresh)
}

func (h ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	const op = "ListingHandler.GetListing"
	log := slog.With("op", op)

	v, ok := h.view(w, r, log)
	if !ok {
		return
	}
	writeListing(w, log, v)
}

func (h ListingHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	const op = "ListingHandler.LoadMore"
	log := slog.With("op", op)

	v, ok := h.view(w, r, log)
	if !ok {
		return
	}
	v.LoadMore(r.Context())
	writeListing(w, log, v)
}

func (h ListingHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	const op = "ListingHandler.SetQuery"
	log := slog.With("op", op)

	var req SearchQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	v, ok := h.view(w, r, log)
	if !ok {
		return
	}
	v.SetQuery(r.Context(), req.Q)
	writeListing(w, log, v)
}

func (h ListingHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	const op = "ListingHandler.Refresh"
	log := slog.With("op", op)

	v, ok := h.view(w, r, log)
	if !ok {
		return
	}
	v.Refresh(r.Context())
	writeListing(w, log, v)
}

func (h ListingHandler) view(
	w http.ResponseWriter, r *http.Request, log *slog.Logger,
) (*service.View, bool) {
	v, err := h.views.View(r.Context(), r.URL.Query().Get("category_id"))
	if err != nil {
		http.Error(w, "failed to fetch listing", http.StatusServiceUnavailable)
		log.Error("failed to fetch listing", "err", err)
		return nil, false
	}
	return v, true
}

func writeListing(w http.ResponseWriter, log *slog.Logger, v *service.View) {
	writeJSON(w, log, ListingResponse{
		Products:  toProducts(v.Products()),
		Page:      v.Page(),
		HasMore:   v.HasMore(),
		Searching: v.Searching(),
	})
}
