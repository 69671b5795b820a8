package api

import (
	"context"
	"net/url"

	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/pkg/validator"
)

// ReviewInput is the payload for posting a product review.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

// ListReviews fetches the reviews for a product.
func (c *Client) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.get(ctx, "/products/"+url.PathEscape(productID)+"/reviews", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview posts a review for a product.
func (c *Client) CreateReview(ctx context.Context, productID string, in ReviewInput) (*domain.Review, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	var review domain.Review
	if err := c.post(ctx, "/products/"+url.PathEscape(productID)+"/reviews", in, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview replaces the caller's own review.
func (c *Client) UpdateReview(ctx context.Context, reviewID string, in ReviewInput) (*domain.Review, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	var review domain.Review
	if err := c.put(ctx, "/reviews/"+url.PathEscape(reviewID), in, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes the caller's own review.
func (c *Client) DeleteReview(ctx context.Context, reviewID string) error {
	return c.delete(ctx, "/reviews/"+url.PathEscape(reviewID))
}
