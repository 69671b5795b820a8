package api

import (
	"context"

	"github.com/jewelcca/storefront/internal/domain"
)

// CreateProviderOrder asks the backend to open a transaction with the payment
// provider for the given order and returns the descriptor the payment widget
// needs to start.
func (c *Client) CreateProviderOrder(ctx context.Context, orderID string) (*domain.ProviderOrder, error) {
	body := map[string]string{"orderId": orderID}

	var po domain.ProviderOrder
	if err := c.post(ctx, "/payments/provider-order", body, &po); err != nil {
		return nil, err
	}
	return &po, nil
}

// VerifyPayment submits the widget's confirmation for server-side signature
// verification. A verification failure surfaces as an error; the order itself
// stays on the backend in its unpaid state.
func (c *Client) VerifyPayment(ctx context.Context, orderNumber string, conf *domain.PaymentConfirmation) error {
	body := struct {
		OrderNumber string `json:"orderNumber"`
		*domain.PaymentConfirmation
	}{OrderNumber: orderNumber, PaymentConfirmation: conf}

	return c.post(ctx, "/payments/verify", body, nil)
}
