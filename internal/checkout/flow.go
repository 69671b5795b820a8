// Package checkout drives the two-step checkout: collect shipping details,
// then take payment. The flow is a small state machine; the order is always
// created on the backend before any payment is attempted, so a failed or
// abandoned payment leaves a traceable order behind.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jewelcca/storefront/internal/api"
	"github.com/jewelcca/storefront/internal/cart"
	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/internal/session"
	"github.com/jewelcca/storefront/pkg/validator"
)

// State identifies the current checkout step.
type State string

const (
	StateIdle      State = "IDLE"
	StateShipping  State = "SHIPPING"
	StatePayment   State = "PAYMENT"
	StateSucceeded State = "SUCCEEDED"
	StateFailed    State = "FAILED"
)

// DefaultPaymentMethod is preselected when the payment step opens.
const DefaultPaymentMethod = domain.PaymentMethodCard

// FailureSupportMessage is shown when payment verification fails. The order
// exists but is unpaid, so the user is pointed at support rather than told
// to retry blindly.
const FailureSupportMessage = "payment verification failed, please contact support"

var (
	ErrNotAuthenticated   = errors.New("checkout requires an authenticated session")
	ErrEmptyCart          = errors.New("checkout requires a non-empty cart")
	ErrCheckoutInProgress = errors.New("a payment submission is already in progress")
	ErrInvalidState       = errors.New("operation not valid in current checkout state")
)

// Flow is one checkout attempt. It is safe for concurrent use, though the
// expected caller is a single UI goroutine.
type Flow struct {
	mu         sync.Mutex
	state      State
	processing bool
	shipping   domain.ShippingInfo
	order      *domain.Order
	failure    string

	api    *api.Client
	cart   *cart.Store
	sess   *session.Store
	widget PaymentWidget
	log    *slog.Logger
}

// NewFlow creates an idle checkout flow.
func NewFlow(client *api.Client, cartStore *cart.Store, sess *session.Store, widget PaymentWidget, log *slog.Logger) *Flow {
	return &Flow{
		state:  StateIdle,
		api:    client,
		cart:   cartStore,
		sess:   sess,
		widget: widget,
		log:    log,
	}
}

// Begin enters the shipping step. It fails when the session is anonymous or
// the cart is empty; both are entry requirements, not recoverable states.
func (f *Flow) Begin(ctx context.Context) error {
	if !f.sess.Authenticated() {
		return ErrNotAuthenticated
	}

	_ = f.cart.Refresh(ctx)
	if f.cart.Empty() {
		return ErrEmptyCart
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateShipping
	f.order = nil
	f.failure = ""
	return nil
}

// SubmitShipping validates and records the shipping details, advancing to
// the payment step.
func (f *Flow) SubmitShipping(info domain.ShippingInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateShipping {
		return ErrInvalidState
	}
	if err := validator.Validate(info); err != nil {
		return err
	}

	f.shipping = info
	f.state = StatePayment
	return nil
}

// Back returns from the payment step to the shipping step. The previously
// entered shipping details are kept for editing.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StatePayment {
		return ErrInvalidState
	}
	if f.processing {
		return ErrCheckoutInProgress
	}
	f.state = StateShipping
	return nil
}

// Shipping returns the shipping details entered so far.
func (f *Flow) Shipping() domain.ShippingInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shipping
}

// SubmitPayment creates the order and settles payment with the chosen
// method. Exactly one submission runs at a time; concurrent calls fail with
// ErrCheckoutInProgress instead of creating duplicate orders.
//
// Outcomes by method:
//   - COD: the order is confirmed immediately and the cart cleared.
//   - CARD and UPI: the payment widget is opened with the provider order.
//     A widget error (including abandonment) keeps the flow in the payment
//     step for another attempt. A verification failure is terminal: the
//     flow moves to FAILED and the cart is kept.
func (f *Flow) SubmitPayment(ctx context.Context, method domain.PaymentMethod) (*domain.Order, error) {
	f.mu.Lock()
	if f.state != StatePayment {
		f.mu.Unlock()
		return nil, ErrInvalidState
	}
	if f.processing {
		f.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}
	f.processing = true
	shipping := f.shipping
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.processing = false
		f.mu.Unlock()
	}()

	if !method.Valid() {
		return nil, errors.New("unsupported payment method")
	}

	// The order is created before any payment handoff. Payment failures
	// after this point leave the order on the backend in its unpaid state.
	order, err := f.api.CreateOrder(ctx, api.CreateOrderInput{
		ShippingAddress: shipping,
		PaymentMethod:   method,
	})
	if err != nil {
		f.log.Error("order creation failed", "error", err)
		return nil, err
	}

	f.mu.Lock()
	f.order = order
	f.mu.Unlock()

	if method == domain.PaymentMethodCOD {
		f.succeed(ctx, order)
		return order, nil
	}

	providerOrder, err := f.api.CreateProviderOrder(ctx, order.ID)
	if err != nil {
		f.log.Error("provider order creation failed", "order_number", order.OrderNumber, "error", err)
		return nil, err
	}

	confirmation, err := f.widget.OpenCheckout(ctx, providerOrder, Prefill{
		Name:  shipping.FirstName + " " + shipping.LastName,
		Email: shipping.Email,
		Phone: shipping.Phone,
	})
	if err != nil {
		// Abandonment or widget failure: stay on the payment step so the
		// user can try again. A retry creates a fresh order; the abandoned
		// one stays pending on the backend.
		f.log.Warn("payment widget closed without confirmation",
			"order_number", order.OrderNumber, "error", err)
		return nil, err
	}

	if err := f.api.VerifyPayment(ctx, order.OrderNumber, confirmation); err != nil {
		f.log.Error("payment verification failed",
			"order_number", order.OrderNumber, "error", err)
		f.mu.Lock()
		f.state = StateFailed
		f.failure = FailureSupportMessage
		f.mu.Unlock()
		return nil, err
	}

	f.succeed(ctx, order)
	return order, nil
}

// succeed marks the flow complete and clears the now-purchased cart.
func (f *Flow) succeed(ctx context.Context, order *domain.Order) {
	if err := f.cart.Clear(ctx); err != nil {
		// The purchase went through; a stale cart is an annoyance, not a
		// failure.
		f.log.Warn("cart clear after checkout failed",
			"order_number", order.OrderNumber, "error", err)
	}

	f.mu.Lock()
	f.state = StateSucceeded
	f.mu.Unlock()
}

// State returns the current checkout step.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Order returns the order created by this flow, or nil before creation.
func (f *Flow) Order() *domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

// FailureMessage returns the user-facing message for a failed checkout, or
// "" when the flow has not failed.
func (f *Flow) FailureMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failure
}
