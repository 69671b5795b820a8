package api

import (
	"context"
	"net/url"

	"github.com/jewelcca/storefront/internal/domain"
)

// GetCart fetches the authenticated user's server-side cart.
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.get(ctx, "/cart", &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem adds quantity units of a product to the cart. Adding a product
// already in the cart increments its line quantity on the server.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.post(ctx, "/cart/items", body, nil)
}

// UpdateCartItem sets the quantity of the cart line holding the given
// product. Lines are keyed by product ID; the cart holds at most one line
// per product.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"quantity": quantity}
	return c.put(ctx, "/cart/items/"+url.PathEscape(productID), body, nil)
}

// RemoveCartItem deletes the cart line holding the given product.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	return c.delete(ctx, "/cart/items/"+url.PathEscape(productID))
}

// ClearCart removes every line from the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart")
}
