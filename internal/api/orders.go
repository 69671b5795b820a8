package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/pkg/pagination"
	"github.com/jewelcca/storefront/pkg/validator"
)

// CreateOrderInput is the checkout submission. The backend snapshots the
// user's current server-side cart into the order; the client sends only the
// shipping details and chosen payment method.
type CreateOrderInput struct {
	ShippingAddress domain.ShippingInfo  `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
}

// CreateOrder submits the checkout and returns the created order.
func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := validator.Validate(in.ShippingAddress); err != nil {
		return nil, err
	}

	var order domain.Order
	if err := c.post(ctx, "/orders", in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders fetches a page of the authenticated user's orders, newest first.
func (c *Client) ListOrders(ctx context.Context, page, size int) (*pagination.Result[domain.Order], error) {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}

	var result pagination.Result[domain.Order]
	if err := c.get(ctx, "/orders"+queryString(v), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOrder fetches an order by ID.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := c.get(ctx, "/orders/"+url.PathEscape(id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber fetches an order by its human-facing order number.
func (c *Client) GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var order domain.Order
	if err := c.get(ctx, "/orders/number/"+url.PathEscape(number), &order); err != nil {
		return nil, err
	}
	return &order, nil
}
