// Package pricing computes cart totals under the storefront's fixed business
// rules. The calculator is pure: it is recomputed from the current cart on
// every use and never stored as independent state.
package pricing

import "github.com/jewelcca/storefront/internal/domain"

// Fixed business rules, in currency units.
const (
	// FreeShippingThreshold is the subtotal above which shipping is free.
	// The boundary is exclusive: a subtotal of exactly 500 still pays shipping.
	FreeShippingThreshold = 500.0

	// FlatShippingFee applies to any order at or below the threshold.
	FlatShippingFee = 15.0

	// TaxRate is applied to the subtotal.
	TaxRate = 0.08
)

// Breakdown is the derived pricing of a cart. Values are unrounded; rounding
// to display precision is a presentation concern.
type Breakdown struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Quote computes the pricing breakdown for the given cart lines. An empty
// cart is not an error: it quotes a zero subtotal plus the flat shipping fee.
func Quote(items []domain.CartItem) Breakdown {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Product.Price * float64(item.Quantity)
	}

	shipping := FlatShippingFee
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}

	tax := subtotal * TaxRate

	return Breakdown{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

// AmountToFreeShipping returns how much more must be added to the subtotal to
// qualify for free shipping, or 0 if the cart already qualifies.
func AmountToFreeShipping(items []domain.CartItem) float64 {
	b := Quote(items)
	if b.Subtotal > FreeShippingThreshold {
		return 0
	}
	return FreeShippingThreshold - b.Subtotal
}
