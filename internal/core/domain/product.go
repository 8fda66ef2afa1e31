package domain

const PlaceholderImage = "https://placehold.co/600x400.png"

type (
	// A Product is read-only from the storefront's perspective,
	// it is created and mutated only by the backend.
	Product struct {
		ID          string
		Name        string
		Price       int64
		Description string
		Image       string
		ImageAlt    string
		CategoryID  string
		Stock       int
		Barcode     string
		Available   bool
	}

	Category struct {
		ID   string
		Name string
		Icon string
	}
)
