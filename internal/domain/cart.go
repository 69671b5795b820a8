package domain

import "time"

// CartItem is one product/quantity pairing in the cart. The invariant is at
// most one line per distinct product id, with quantity always >= 1.
type CartItem struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the server-authoritative cart state mirrored by the client.
type Cart struct {
	Items []CartItem `json:"items"`
}

// TotalItems returns the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// TotalPrice returns the sum of price * quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// FindItem returns the index of the line for the given product id, or -1.
func (c *Cart) FindItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// WishlistItem is a product saved for later. Wishlists track presence only,
// not quantity.
type WishlistItem struct {
	ID      string    `json:"id"`
	Product Product   `json:"product"`
	AddedAt time.Time `json:"addedAt"`
}
