package api

import (
	"context"
	"net/url"

	"github.com/jewelcca/storefront/internal/domain"
)

// GetWishlist fetches the authenticated user's wishlist.
func (c *Client) GetWishlist(ctx context.Context) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	if err := c.get(ctx, "/wishlist", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddWishlistItem adds a product to the wishlist. The backend treats a
// duplicate add as a no-op.
func (c *Client) AddWishlistItem(ctx context.Context, productID string) error {
	body := map[string]string{"productId": productID}
	return c.post(ctx, "/wishlist", body, nil)
}

// RemoveWishlistItem removes a product from the wishlist.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID string) error {
	return c.delete(ctx, "/wishlist/"+url.PathEscape(productID))
}

// CheckWishlistItem asks the backend whether the product is on the
// authenticated user's wishlist.
func (c *Client) CheckWishlistItem(ctx context.Context, productID string) (bool, error) {
	var out struct {
		InWishlist bool `json:"inWishlist"`
	}
	if err := c.get(ctx, "/wishlist/check/"+url.PathEscape(productID), &out); err != nil {
		return false, err
	}
	return out.InWishlist, nil
}
