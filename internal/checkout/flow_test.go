package checkout

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelcca/storefront/internal/api"
	"github.com/jewelcca/storefront/internal/apitest"
	"github.com/jewelcca/storefront/internal/cart"
	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/internal/session"
	apperrors "github.com/jewelcca/storefront/pkg/errors"
	"github.com/jewelcca/storefront/pkg/httpclient"
	"github.com/jewelcca/storefront/pkg/logger"
	"github.com/jewelcca/storefront/pkg/validator"
)

// widgetFunc adapts a function to the PaymentWidget interface.
type widgetFunc func(ctx context.Context, order *domain.ProviderOrder, prefill Prefill) (*domain.PaymentConfirmation, error)

func (f widgetFunc) OpenCheckout(ctx context.Context, order *domain.ProviderOrder, prefill Prefill) (*domain.PaymentConfirmation, error) {
	return f(ctx, order, prefill)
}

// signingWidget completes payment with a valid signature.
func signingWidget() PaymentWidget {
	return widgetFunc(func(_ context.Context, order *domain.ProviderOrder, _ Prefill) (*domain.PaymentConfirmation, error) {
		return &domain.PaymentConfirmation{
			ProviderOrderID:   order.ProviderOrderID,
			ProviderPaymentID: "pay-1",
			Signature:         apitest.Signature(order.ProviderOrderID, "pay-1"),
		}, nil
	})
}

type fixture struct {
	flow    *Flow
	client  *api.Client
	cart    *cart.Store
	backend *apitest.Server
	sess    *session.Store
}

func newFixture(t *testing.T, widget PaymentWidget) *fixture {
	t.Helper()

	backend := apitest.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	sess := session.New()
	cfg := httpclient.Config{
		Timeout:      5 * time.Second,
		MaxRetries:   1,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}
	log := logger.New("checkout-test", "error")
	client := api.New(srv.URL+"/api", cfg, sess, log)
	cartStore := cart.NewStore(client, sess, log)

	return &fixture{
		flow:    NewFlow(client, cartStore, sess, widget, log),
		client:  client,
		cart:    cartStore,
		backend: backend,
		sess:    sess,
	}
}

func (f *fixture) loginWithCart(t *testing.T) {
	t.Helper()

	f.backend.SeedUser("shopper@example.com", "secret123", domain.RoleUser)
	ring := f.backend.SeedProduct(domain.Product{
		Name:         "Aurora Diamond Ring",
		CategorySlug: "rings",
		Price:        299.99,
	})

	ctx := context.Background()
	_, err := f.client.Login(ctx, api.LoginInput{Email: "shopper@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, f.cart.AddItem(ctx, ring.ID, 1))
}

func shipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		FirstName: "Nia",
		LastName:  "Patel",
		Email:     "nia@example.com",
		Phone:     "5550100",
		Street:    "12 Marine Drive",
		City:      "Mumbai",
		State:     "MH",
		ZipCode:   "400001",
		Country:   "IN",
	}
}

func TestBegin_RequiresAuthentication(t *testing.T) {
	f := newFixture(t, signingWidget())

	err := f.flow.Begin(context.Background())

	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, StateIdle, f.flow.State())
}

func TestBegin_RequiresNonEmptyCart(t *testing.T) {
	f := newFixture(t, signingWidget())
	f.backend.SeedUser("shopper@example.com", "secret123", domain.RoleUser)
	_, err := f.client.Login(context.Background(), api.LoginInput{Email: "shopper@example.com", Password: "secret123"})
	require.NoError(t, err)

	err = f.flow.Begin(context.Background())

	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitShipping_OutsideShippingStep(t *testing.T) {
	f := newFixture(t, signingWidget())

	err := f.flow.SubmitShipping(shipping())

	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitShipping_ValidatesFields(t *testing.T) {
	f := newFixture(t, signingWidget())
	f.loginWithCart(t)
	require.NoError(t, f.flow.Begin(context.Background()))

	info := shipping()
	info.City = ""
	err := f.flow.SubmitShipping(info)

	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "City")
	assert.Equal(t, StateShipping, f.flow.State(), "invalid shipping must not advance the flow")
}

func TestSubmitPayment_BeforeShippingStep(t *testing.T) {
	f := newFixture(t, signingWidget())
	f.loginWithCart(t)
	require.NoError(t, f.flow.Begin(context.Background()))

	_, err := f.flow.SubmitPayment(context.Background(), domain.PaymentMethodCOD)

	require.ErrorIs(t, err, ErrInvalidState)
}

func TestCheckout_CashOnDelivery(t *testing.T) {
	f := newFixture(t, signingWidget())
	f.loginWithCart(t)
	ctx := context.Background()

	require.NoError(t, f.flow.Begin(ctx))
	require.NoError(t, f.flow.SubmitShipping(shipping()))

	order, err := f.flow.SubmitPayment(ctx, domain.PaymentMethodCOD)

	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, f.flow.State())
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.Regexp(t, `^JW-\d+$`, order.OrderNumber)
	assert.True(t, f.cart.Empty(), "cart must be cleared after a successful checkout")
}

func TestCheckout_CardPaymentSucceeds(t *testing.T) {
	f := newFixture(t, signingWidget())
	f.loginWithCart(t)
	ctx := context.Background()

	require.NoError(t, f.flow.Begin(ctx))
	require.NoError(t, f.flow.SubmitShipping(shipping()))

	order, err := f.flow.SubmitPayment(ctx, domain.PaymentMethodCard)

	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, f.flow.State())
	assert.True(t, f.cart.Empty())
	assert.Equal(t, domain.OrderStatusConfirmed, f.backend.Order(order.ID).Status)
}

func TestCheckout_WidgetPassesPrefillAndAmount(t *testing.T) {
	var captured Prefill
	var amount float64
	widget := widgetFunc(func(_ context.Context, order *domain.ProviderOrder, prefill Prefill) (*domain.PaymentConfirmation, error) {
		captured = prefill
		amount = order.Amount
		return &domain.PaymentConfirmation{
			ProviderOrderID:   order.ProviderOrderID,
			ProviderPaymentID: "pay-1",
			Signature:         apitest.Signature(order.ProviderOrderID, "pay-1"),
		}, nil
	})

	f := newFixture(t, widget)
	f.loginWithCart(t)
	ctx := context.Background()

	require.NoError(t, f.flow.Begin(ctx))
	require.NoError(t, f.flow.SubmitShipping(shipping()))
	order, err := f.flow.SubmitPayment(ctx, domain.PaymentMethodUPI)
	require.NoError(t, err)

	assert.Equal(t, "Nia Patel", captured.Name)
	assert.Equal(t, "nia@example.com", captured.Email)
	assert.Equal(t, order.TotalAmount, amount)
}

func TestCheckout_WidgetAbandonmentStaysInPaymentStep(t *testing.T) {
	abandoned := errors.New("user closed the payment window")
	widget := widgetFunc(func(context.Context, *domain.ProviderOrder, Prefill) (*domain.PaymentConfirmation, error) {
		return nil, abandoned
	})

	f := newFixture(t, widget)
	f.loginWithCart(t)
	ctx := context.Background()

	require.NoError(t, f.flow.Begin(ctx))
	require.NoError(t, f.flow.SubmitShipping(shipping()))

	_, err := f.flow.SubmitPayment(ctx, domain.PaymentMethodCard)

	require.ErrorIs(t, err, abandoned)
	assert.Equal(t, StatePayment, f.flow.State(), "abandonment must allow another attempt")
	assert.False(t, f.cart.Empty(), "cart must survive an abandoned payment")
	// The abandoned order stays pending on the backend.
	assert.Equal(t, domain.OrderStatusPending, f.backend.Order(f.flow.Order().ID).Status)
}

func TestCheckout_RetryAfterAbandonmentCreatesNewOrder(t *testing.T) {
	fail := true
	widget := widgetFunc(func(_ context.Context, order *domain.ProviderOrder, _ Prefill) (*domain.PaymentConfirmation, error) {
		if fail {
			return nil, errors.New("user closed the payment window")
		}
		return &domain.PaymentConfirmation{
			ProviderOrderID:   order.ProviderOrderID,
			ProviderPaymentID: "pay-2",
			Signature:         apitest.Signature(order.ProviderOrderID, "pay-2"),
		}, nil
	})

	f := newFixture(t, widget)
	f.loginWithCart(t)
	ctx := context.Background()

	require.NoError(t, f.flow.Begin(ctx))
	require.NoError(t, f.flow.SubmitShipping(shipping()))

	_, err := f.flow.SubmitPayment(ctx, domain.PaymentMethodCard)
	require.Error(t, err)
	first := f.flow.Order().ID

	fail = false
	order, err := f.flow.SubmitPayment(ctx, domain.PaymentMethodCard)
	require.NoError(t, err)

	// There is no idempotency key: each submission creates its own order.
	assert.NotEqual(t, first, order.ID)
	assert.Equal(t, StateSucceeded, f.flow.State())
}

func TestCheckout_VerificationFailureIsTerminal(t *testing.T) {
	f := newFixture(t, signingWidget())
	f.loginWithCart(t)
	f.backend.FailPaymentVerification = true
	ctx := context.Background()

	require.NoError(t, f.flow.Begin(ctx))
	require.NoError(t, f.flow.SubmitShipping(shipping()))

	_, err := f.flow.SubmitPayment(ctx, domain.PaymentMethodCard)

	require.ErrorIs(t, err, apperrors.ErrPaymentFailed)
	assert.Equal(t, StateFailed, f.flow.State())
	assert.Equal(t, FailureSupportMessage, f.flow.FailureMessage())
	assert.False(t, f.cart.Empty(), "cart must be kept when verification fails")
}

func TestCheckout_ConcurrentSubmissionsAreRejected(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	widget := widgetFunc(func(_ context.Context, order *domain.ProviderOrder, _ Prefill) (*domain.PaymentConfirmation, error) {
		close(entered)
		<-release
		return &domain.PaymentConfirmation{
			ProviderOrderID:   order.ProviderOrderID,
			ProviderPaymentID: "pay-1",
			Signature:         apitest.Signature(order.ProviderOrderID, "pay-1"),
		}, nil
	})

	f := newFixture(t, widget)
	f.loginWithCart(t)
	ctx := context.Background()

	require.NoError(t, f.flow.Begin(ctx))
	require.NoError(t, f.flow.SubmitShipping(shipping()))

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.flow.SubmitPayment(ctx, domain.PaymentMethodCard)
	}()

	<-entered
	_, err := f.flow.SubmitPayment(ctx, domain.PaymentMethodCard)
	require.ErrorIs(t, err, ErrCheckoutInProgress)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, StateSucceeded, f.flow.State())
}

func TestBack_PreservesShippingDetails(t *testing.T) {
	f := newFixture(t, signingWidget())
	f.loginWithCart(t)
	ctx := context.Background()

	require.NoError(t, f.flow.Begin(ctx))
	require.NoError(t, f.flow.SubmitShipping(shipping()))
	require.Equal(t, StatePayment, f.flow.State())

	require.NoError(t, f.flow.Back())

	assert.Equal(t, StateShipping, f.flow.State())
	assert.Equal(t, shipping(), f.flow.Shipping())

	// Resubmitting from the shipping step works as before.
	require.NoError(t, f.flow.SubmitShipping(f.flow.Shipping()))
	assert.Equal(t, StatePayment, f.flow.State())
}

func TestBack_OutsidePaymentStep(t *testing.T) {
	f := newFixture(t, signingWidget())

	require.ErrorIs(t, f.flow.Back(), ErrInvalidState)
}

func TestCheckout_UnsupportedMethod(t *testing.T) {
	f := newFixture(t, signingWidget())
	f.loginWithCart(t)
	ctx := context.Background()

	require.NoError(t, f.flow.Begin(ctx))
	require.NoError(t, f.flow.SubmitShipping(shipping()))

	_, err := f.flow.SubmitPayment(ctx, domain.PaymentMethod("CHEQUE"))

	require.Error(t, err)
	assert.Equal(t, StatePayment, f.flow.State())
}
