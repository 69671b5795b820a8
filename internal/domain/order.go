package domain

import "time"

// PaymentMethod identifies how an order is paid.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodCOD  PaymentMethod = "COD"
)

// Valid reports whether the payment method is one of the supported values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodCOD:
		return true
	}
	return false
}

// Order status constants as reported by the backend.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// ShippingInfo carries the user-supplied shipping details collected during
// checkout. Only presence is validated; format validation is not performed.
type ShippingInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// Order is created by the backend from a checkout submission. The client only
// constructs the creation request and consumes the response.
type Order struct {
	ID                string        `json:"id"`
	OrderNumber       string        `json:"orderNumber"`
	UserID            string        `json:"userId"`
	Items             []CartItem    `json:"items"`
	TotalAmount       float64       `json:"totalAmount"`
	ShippingAddress   ShippingInfo  `json:"shippingAddress"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	Status            string        `json:"status"`
	TrackingNumber    string        `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time    `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// ProviderOrder is the provider transaction descriptor returned by the backend
// to initiate the external payment widget.
type ProviderOrder struct {
	ProviderOrderID string  `json:"providerOrderId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	KeyID           string  `json:"keyId"`
}

// PaymentConfirmation is the payload the payment widget eventually calls back
// with after the user completes payment.
type PaymentConfirmation struct {
	ProviderOrderID   string `json:"providerOrderId"`
	ProviderPaymentID string `json:"providerPaymentId"`
	Signature         string `json:"signature"`
}
