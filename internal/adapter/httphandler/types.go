package httphandler

type (
	Product struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Price       int64  `json:"price"`
		Description string `json:"description"`
		Image       string `json:"image"`
		ImageAlt    string `json:"image_alt"`
		CategoryID  string `json:"category_id,omitempty"`
		Stock       int    `json:"stock"`
		Available   bool   `json:"is_available"`
	}

	Category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Icon string `json:"icon,omitempty"`
	}

	ListingResponse struct {
		Products  []Product `json:"products"`
		Page      int       `json:"page"`
		HasMore   bool      `json:"has_more"`
		Searching bool      `json:"searching"`
	}

	SearchQueryRequest struct {
		Q string `json:"q"`
	}

	OrderStatusResponse struct {
		Status string `json:"status"`
	}

	CartItem struct {
		Product
		Quantity  int   `json:"quantity"`
		LineTotal int64 `json:"line_total"`
	}

	CartResponse struct {
		Items      []CartItem `json:"items"`
		TotalPrice int64      `json:"total_price"`
		TotalItems int        `json:"total_items"`
	}

	AddCartItemRequest struct {
		ProductID string `json:"product_id"`
	}

	UpdateCartItemRequest struct {
		Quantity int `json:"quantity"`
	}

	OrderRequest struct {
		Notes string `json:"notes"`
		Phone string `json:"phone"`
	}

	CredentialsRequest struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}

	UserResponse struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		FullName string `json:"full_name"`
	}
)
