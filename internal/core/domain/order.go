package domain

const OrderStatusPending = "pending"

type (
	Order struct {
		ID            string
		TotalAmount   int64
		Status        string
		CustomerName  string
		CustomerEmail string
		CustomerPhone string
		Notes         string
		UserID        string
	}

	OrderItem struct {
		OrderID    string
		ProductID  string
		Quantity   int
		UnitPrice  int64
		TotalPrice int64
	}
)
