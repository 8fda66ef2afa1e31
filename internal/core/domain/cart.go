package domain

type (
	// A CartItem is a product plus a quantity of at least 1.
	// Quantity zero or below removes the item from the cart.
	CartItem struct {
		Product
		Quantity int
	}

	// A StoredCartItem is the persisted projection of a cart entry.
	StoredCartItem struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	}
)

func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
