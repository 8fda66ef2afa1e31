package backend

import "github.com/aswaq/storefront/internal/core/domain"

// FallbackProducts is the static built-in dataset served when the
// backend is unreachable or unconfigured.
var FallbackProducts = []domain.Product{
	{
		ID:          "1",
		Name:        "Sample Product 1",
		Price:       9999,
		Description: "A sample description for the first product",
		Image:       domain.PlaceholderImage,
		ImageAlt:    "Sample Product 1",
		CategoryID:  "1",
		Stock:       10,
		Barcode:     "1000000000001",
		Available:   true,
	},
	{
		ID:          "2",
		Name:        "Sample Product 2",
		Price:       14999,
		Description: "A sample description for the second product",
		Image:       domain.PlaceholderImage,
		ImageAlt:    "Sample Product 2",
		CategoryID:  "2",
		Stock:       5,
		Barcode:     "1000000000002",
		Available:   true,
	},
	{
		ID:          "3",
		Name:        "Sample Product 3",
		Price:       19999,
		Description: "A sample description for the third product",
		Image:       domain.PlaceholderImage,
		ImageAlt:    "Sample Product 3",
		CategoryID:  "1",
		Stock:       2,
		Barcode:     "1000000000003",
		Available:   true,
	},
}

var FallbackCategories = []domain.Category{
	{ID: "1", Name: "Electronics", Icon: "📱"},
	{ID: "2", Name: "Clothing", Icon: "👕"},
	{ID: "3", Name: "Home", Icon: "🏠"},
}
