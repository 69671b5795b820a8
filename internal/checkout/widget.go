package checkout

import (
	"context"

	"github.com/jewelcca/storefront/internal/domain"
)

// Prefill carries the customer details handed to the payment widget so the
// user does not retype them.
type Prefill struct {
	Name  string
	Email string
	Phone string
}

// PaymentWidget is the external payment provider's checkout surface. The
// real implementation opens the provider's hosted UI; tests substitute a
// stub. OpenCheckout blocks until the user completes or abandons payment.
//
// A nil confirmation with a nil error is not a valid outcome: abandonment
// must surface as an error.
type PaymentWidget interface {
	OpenCheckout(ctx context.Context, order *domain.ProviderOrder, prefill Prefill) (*domain.PaymentConfirmation, error)
}
