package domain

// Product represents a catalog product. Products are sourced from the backend
// and never mutated by the client core.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	CategorySlug  string   `json:"categorySlug,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice,omitempty"`
	Description   string   `json:"description,omitempty"`
	ImageURLs     []string `json:"imageUrls,omitempty"`
	InStock       bool     `json:"inStock"`
	StockQuantity int      `json:"stockQuantity"`
	Rating        float64  `json:"rating,omitempty"`
	ReviewCount   int      `json:"reviewCount,omitempty"`
	Materials     []string `json:"materials,omitempty"`
	Weight        string   `json:"weight,omitempty"`
	Dimensions    string   `json:"dimensions,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// Discounted reports whether the product carries a pre-discount price.
func (p *Product) Discounted() bool {
	return p.OriginalPrice > p.Price
}

// HasMaterial reports whether the product lists the given material.
func (p *Product) HasMaterial(material string) bool {
	for _, m := range p.Materials {
		if m == material {
			return true
		}
	}
	return false
}

// Category represents a product category.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `json:"description,omitempty"`
}
