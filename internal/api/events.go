package api

import (
	"context"
	"net/url"

	"github.com/jewelcca/storefront/internal/domain"
)

// ListEvents fetches the currently active store events.
func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.get(ctx, "/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent fetches a single event by ID.
func (c *Client) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	if err := c.get(ctx, "/events/"+url.PathEscape(id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// AdminListEvents fetches every event, active or not.
func (c *Client) AdminListEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.get(ctx, "/admin/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// AdminCreateEvent publishes a store event.
func (c *Client) AdminCreateEvent(ctx context.Context, e domain.Event) (*domain.Event, error) {
	var created domain.Event
	if err := c.post(ctx, "/admin/events", e, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AdminDeleteEvent removes a store event.
func (c *Client) AdminDeleteEvent(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/events/"+url.PathEscape(id))
}
