package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/pkg/pagination"
)

// ProductQuery filters and pages a product listing.
type ProductQuery struct {
	Category string
	Search   string
	Page     int
	Size     int
}

// ListProducts fetches a page of products matching the query.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*pagination.Result[domain.Product], error) {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}

	var result pagination.Result[domain.Product]
	if err := c.get(ctx, "/products"+queryString(v), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/products/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProductsByPriceRange fetches products priced between min and max
// inclusive. A max of zero leaves the upper bound open.
func (c *Client) ListProductsByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error) {
	v := url.Values{}
	v.Set("min", strconv.FormatFloat(min, 'f', -1, 64))
	if max > 0 {
		v.Set("max", strconv.FormatFloat(max, 'f', -1, 64))
	}

	var products []domain.Product
	if err := c.get(ctx, "/products/price-range"+queryString(v), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListFeaturedProducts fetches the curated products for the storefront home.
func (c *Client) ListFeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/products/featured", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListTopRatedProducts fetches the highest-rated products.
func (c *Client) ListTopRatedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}

	var products []domain.Product
	if err := c.get(ctx, "/products/top-rated"+queryString(v), &products); err != nil {
		return nil, err
	}
	return products, nil
}
