package models

// Product is the demo resource served behind the gate.
type Product struct {
	ID           string  `json:"-"`
	Title        string  `json:"title"`
	CurrentPrice float64 `json:"current_price"`
	Image        string  `json:"image"`
}

// DemoProduct returns the placeholder product every id resolves to.
func DemoProduct(id string) Product {
	return Product{
		ID:           id,
		Title:        "Some product",
		CurrentPrice: 1.99,
		Image:        "https://www.example.com/image.jpg",
	}
}
