// Package cart maintains the client-side view of the server-owned cart.
//
// The server is the source of truth. Every mutation is sent to the backend
// and followed by a full re-fetch; the local copy is never updated
// optimistically, so stock caps or merges applied server-side are always
// reflected. Refresh failures degrade to an empty cart rather than erroring:
// a cart that cannot be loaded is presented the same as no cart.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jewelcca/storefront/internal/api"
	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/internal/pricing"
	"github.com/jewelcca/storefront/internal/session"
)

// Store is the client-side cart state. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	cart domain.Cart

	api  *api.Client
	sess *session.Store
	log  *slog.Logger
}

// NewStore creates a cart store bound to the session. Any identity change
// (login, logout, forced logout) triggers a re-sync so the cart always
// belongs to the current user.
func NewStore(client *api.Client, sess *session.Store, log *slog.Logger) *Store {
	s := &Store{api: client, sess: sess, log: log}
	sess.Subscribe(func() {
		_ = s.Refresh(context.Background())
	})
	return s
}

// Refresh replaces the local cart with the server's copy. Anonymous sessions
// get an empty cart. Fetch failures are logged and swallowed, leaving an
// empty cart; the next successful refresh restores the real state.
func (s *Store) Refresh(ctx context.Context) error {
	if !s.sess.Authenticated() {
		s.set(domain.Cart{})
		return nil
	}

	cart, err := s.api.GetCart(ctx)
	if err != nil {
		s.log.Warn("cart refresh failed", "error", err)
		s.set(domain.Cart{})
		return nil
	}

	s.set(*cart)
	return nil
}

// AddItem adds quantity units of a product. No-op when anonymous.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) error {
	if !s.sess.Authenticated() {
		return nil
	}
	return s.mutate(ctx, "add item", func() error {
		return s.api.AddCartItem(ctx, productID, quantity)
	})
}

// UpdateQuantity sets the quantity of the line holding the given product.
// A quantity of zero or less removes the line instead.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if !s.sess.Authenticated() {
		return nil
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	return s.mutate(ctx, "update quantity", func() error {
		return s.api.UpdateCartItem(ctx, productID, quantity)
	})
}

// RemoveItem deletes the line holding the given product. No-op when
// anonymous.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	if !s.sess.Authenticated() {
		return nil
	}
	return s.mutate(ctx, "remove item", func() error {
		return s.api.RemoveCartItem(ctx, productID)
	})
}

// Clear empties the cart. No-op when anonymous.
func (s *Store) Clear(ctx context.Context) error {
	if !s.sess.Authenticated() {
		return nil
	}
	return s.mutate(ctx, "clear", func() error {
		return s.api.ClearCart(ctx)
	})
}

// mutate runs op and re-syncs from the server regardless of outcome, so the
// local copy reflects whatever the backend actually did. The mutation error,
// if any, is returned to the caller.
func (s *Store) mutate(ctx context.Context, action string, op func() error) error {
	opErr := op()
	if opErr != nil {
		s.log.Error("cart mutation failed", "action", action, "error", opErr)
	}
	_ = s.Refresh(ctx)
	return opErr
}

// Items returns a copy of the current cart lines.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CartItem{}, s.cart.Items...)
}

// TotalItems returns the total unit count across lines.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalItems()
}

// TotalPrice returns the cart subtotal.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalPrice()
}

// Quote computes the current pricing breakdown.
func (s *Store) Quote() pricing.Breakdown {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pricing.Quote(s.cart.Items)
}

// Empty reports whether the cart has no lines.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cart.Items) == 0
}

func (s *Store) set(c domain.Cart) {
	s.mu.Lock()
	s.cart = c
	s.mu.Unlock()
}
