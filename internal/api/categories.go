package api

import (
	"context"
	"net/url"

	"github.com/jewelcca/storefront/internal/domain"
)

// ListCategories fetches all product categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory fetches a category by slug.
func (c *Client) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	var cat domain.Category
	if err := c.get(ctx, "/categories/"+url.PathEscape(slug), &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
