package api

import (
	"context"
	"net/url"

	"github.com/jewelcca/storefront/internal/domain"
)

// ListAddresses fetches the authenticated user's saved addresses.
func (c *Client) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	var addrs []domain.Address
	if err := c.get(ctx, "/users/me/addresses", &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

// CreateAddress saves a new address on the user's profile.
func (c *Client) CreateAddress(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	var created domain.Address
	if err := c.post(ctx, "/users/me/addresses", addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAddress replaces a saved address.
func (c *Client) UpdateAddress(ctx context.Context, addr domain.Address) error {
	return c.put(ctx, "/users/me/addresses/"+url.PathEscape(addr.ID), addr, nil)
}

// DeleteAddress removes a saved address.
func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	return c.delete(ctx, "/users/me/addresses/"+url.PathEscape(id))
}

// SetDefaultAddress marks a saved address as the default. Any previous
// default is demoted server-side.
func (c *Client) SetDefaultAddress(ctx context.Context, id string) error {
	return c.put(ctx, "/users/me/addresses/"+url.PathEscape(id)+"/default", nil, nil)
}

// UpdateProfileInput carries editable profile fields.
type UpdateProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateProfile edits the authenticated user's name and refreshes the cached
// session identity.
func (c *Client) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*domain.User, error) {
	var u domain.User
	if err := c.put(ctx, "/users/me", in, &u); err != nil {
		return nil, err
	}

	if token := c.session.Token(); token != "" {
		c.session.SetCredentials(token, &u)
	}
	return &u, nil
}

// Profile fetches the authenticated user's profile and refreshes the cached
// session identity.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/users/me", &u); err != nil {
		return nil, err
	}

	if token := c.session.Token(); token != "" {
		c.session.SetCredentials(token, &u)
	}
	return &u, nil
}
