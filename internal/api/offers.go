package api

import (
	"context"
	"net/url"

	"github.com/jewelcca/storefront/internal/domain"
)

// ListOffers fetches the currently active promotional offers.
func (c *Client) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	if err := c.get(ctx, "/offers", &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// GetOffer fetches a single offer by ID.
func (c *Client) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	var offer domain.Offer
	if err := c.get(ctx, "/offers/"+url.PathEscape(id), &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// GetOfferByCode looks up an offer by its promo code.
func (c *Client) GetOfferByCode(ctx context.Context, code string) (*domain.Offer, error) {
	var offer domain.Offer
	if err := c.get(ctx, "/offers/code/"+url.PathEscape(code), &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// AdminCreateOffer publishes a promotional offer.
func (c *Client) AdminCreateOffer(ctx context.Context, o domain.Offer) (*domain.Offer, error) {
	var created domain.Offer
	if err := c.post(ctx, "/admin/offers", o, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AdminUpdateOffer replaces an existing offer.
func (c *Client) AdminUpdateOffer(ctx context.Context, o domain.Offer) error {
	return c.put(ctx, "/admin/offers/"+url.PathEscape(o.ID), o, nil)
}

// AdminDeleteOffer removes a promotional offer.
func (c *Client) AdminDeleteOffer(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/offers/"+url.PathEscape(id))
}
