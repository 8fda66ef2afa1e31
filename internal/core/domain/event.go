package domain

import "time"

const (
	EventProductView = "product_view"
	EventSearch      = "search"
	EventOrderPlaced = "order_placed"
)

// A ClientEvent records a browsing or checkout action for the
// analytics pipeline. Fire-and-forget, never blocks the storefront.
type ClientEvent struct {
	Type      string
	UserID    string
	ProductID string
	Query     string
	At        time.Time
}
