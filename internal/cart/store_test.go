package cart

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelcca/storefront/internal/api"
	"github.com/jewelcca/storefront/internal/apitest"
	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/internal/pricing"
	"github.com/jewelcca/storefront/internal/session"
	apperrors "github.com/jewelcca/storefront/pkg/errors"
	"github.com/jewelcca/storefront/pkg/httpclient"
	"github.com/jewelcca/storefront/pkg/logger"
)

type fixture struct {
	store   *Store
	client  *api.Client
	backend *apitest.Server
	sess    *session.Store
}

func newFixture(t *testing.T) *fixture {
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
	log := logger.New("cart-test", "error")
	client := api.New(srv.URL+"/api", cfg, sess, log)

	return &fixture{
		store:   NewStore(client, sess, log),
		client:  client,
		backend: backend,
		sess:    sess,
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.backend.SeedUser("shopper@example.com", "secret123", domain.RoleUser)
	_, err := f.client.Login(context.Background(), api.LoginInput{
		Email:    "shopper@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
}

func (f *fixture) seedRing(price float64) domain.Product {
	return f.backend.SeedProduct(domain.Product{
		Name:         "Aurora Diamond Ring",
		CategorySlug: "rings",
		Price:        price,
		InStock:      true,
	})
}

func TestAnonymousMutationsAreNoOps(t *testing.T) {
	f := newFixture(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))
	require.NoError(t, f.store.UpdateQuantity(ctx, "any", 3))
	require.NoError(t, f.store.RemoveItem(ctx, "any"))
	require.NoError(t, f.store.Clear(ctx))

	assert.True(t, f.store.Empty())
}

func TestAddItemResyncsFromServer(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, f.store.TotalItems())
	assert.Equal(t, 200.0, f.store.TotalPrice())
}

func TestLocalStateReflectsServerAdjustments(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)

	// The server caps the stored quantity, as a stock limit would.
	f.backend.CartQuantityHook = func(productID string, requested int) int {
		if requested > 3 {
			return 3
		}
		return requested
	}

	require.NoError(t, f.store.AddItem(context.Background(), ring.ID, 10))

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity, "local cart must show the server's quantity, not the requested one")
}

func TestMutationsAreKeyedByProductID(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	pendant := f.backend.SeedProduct(domain.Product{Name: "Luna Pendant", Price: 80, InStock: true})
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))
	require.NoError(t, f.store.AddItem(ctx, pendant.ID, 1))

	require.NoError(t, f.store.UpdateQuantity(ctx, ring.ID, 5))
	require.NoError(t, f.store.RemoveItem(ctx, pendant.ID))

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, ring.ID, items[0].Product.ID)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))

	require.NoError(t, f.store.UpdateQuantity(ctx, ring.ID, 0))

	assert.True(t, f.store.Empty())
}

func TestUpdateQuantityNegativeRemovesLine(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))

	require.NoError(t, f.store.UpdateQuantity(ctx, ring.ID, -1))

	assert.True(t, f.store.Empty())
}

func TestMutationErrorIsReturnedAndStateResynced(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 1))

	err := f.store.AddItem(ctx, "no-such-product", 1)

	require.ErrorIs(t, err, apperrors.ErrNotFound)
	// The failed mutation must not disturb the synced state.
	require.Len(t, f.store.Items(), 1)
	assert.Equal(t, 1, f.store.Items()[0].Quantity)
}

func TestRefreshFailureDegradesToEmptyCart(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))
	require.False(t, f.store.Empty())

	// Token dies server-side; the next refresh hits a 401, which also
	// forces a logout. The cart degrades to empty, never errors.
	f.backend.RevokeToken(f.sess.Token())
	require.NoError(t, f.store.Refresh(ctx))

	assert.True(t, f.store.Empty())
	assert.False(t, f.sess.Authenticated())
}

func TestLogoutClearsCart(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))
	require.False(t, f.store.Empty())

	f.sess.Clear()

	assert.True(t, f.store.Empty())
}

func TestLoginLoadsExistingServerCart(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))
	f.sess.Clear()
	require.True(t, f.store.Empty())

	// Logging back in re-syncs the server-side cart via the session
	// subscription, with no explicit Refresh call.
	_, err := f.client.Login(ctx, api.LoginInput{
		Email:    "shopper@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.Len(t, f.store.Items(), 1)
	assert.Equal(t, 2, f.store.Items()[0].Quantity)
}

func TestClearEmptiesServerCart(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))
	require.NoError(t, f.store.Clear(ctx))

	assert.True(t, f.store.Empty())
	assert.Empty(t, f.backend.Cart(f.sess.User().ID).Items)
}

func TestQuote(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ring := f.seedRing(100)
	ctx := context.Background()

	require.NoError(t, f.store.AddItem(ctx, ring.ID, 2))

	q := f.store.Quote()
	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, pricing.FlatShippingFee, q.Shipping)
	assert.InDelta(t, 16, q.Tax, 1e-9)
	assert.InDelta(t, 231, q.Total, 1e-9)
}
