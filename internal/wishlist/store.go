// Package wishlist maintains the client-side view of the server-owned
// wishlist. It follows the same contract as the cart store: mutate on the
// server, then re-fetch; never trust the optimistic local state.
package wishlist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jewelcca/storefront/internal/api"
	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/internal/session"
)

// Store is the client-side wishlist state. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items []domain.WishlistItem

	api  *api.Client
	sess *session.Store
	log  *slog.Logger
}

// NewStore creates a wishlist store bound to the session, re-syncing on
// every identity change.
func NewStore(client *api.Client, sess *session.Store, log *slog.Logger) *Store {
	s := &Store{api: client, sess: sess, log: log}
	sess.Subscribe(func() {
		_ = s.Refresh(context.Background())
	})
	return s
}

// Refresh replaces the local items with the server's copy. Anonymous
// sessions get an empty list; fetch failures are logged and swallowed.
func (s *Store) Refresh(ctx context.Context) error {
	if !s.sess.Authenticated() {
		s.set(nil)
		return nil
	}

	items, err := s.api.GetWishlist(ctx)
	if err != nil {
		s.log.Warn("wishlist refresh failed", "error", err)
		s.set(nil)
		return nil
	}

	s.set(items)
	return nil
}

// Add puts a product on the wishlist. No-op when anonymous; duplicates are
// absorbed server-side.
func (s *Store) Add(ctx context.Context, productID string) error {
	if !s.sess.Authenticated() {
		return nil
	}
	return s.mutate(ctx, "add", func() error {
		return s.api.AddWishlistItem(ctx, productID)
	})
}

// Remove takes a product off the wishlist. No-op when anonymous.
func (s *Store) Remove(ctx context.Context, productID string) error {
	if !s.sess.Authenticated() {
		return nil
	}
	return s.mutate(ctx, "remove", func() error {
		return s.api.RemoveWishlistItem(ctx, productID)
	})
}

// Toggle adds the product if absent, removes it if present.
func (s *Store) Toggle(ctx context.Context, productID string) error {
	if s.Contains(productID) {
		return s.Remove(ctx, productID)
	}
	return s.Add(ctx, productID)
}

// Clear resets the local mirror without touching the server. The session
// subscription calls Refresh on logout, which has the same effect; Clear is
// for callers that want the local state gone immediately.
func (s *Store) Clear() {
	s.set(nil)
}

func (s *Store) mutate(ctx context.Context, action string, op func() error) error {
	opErr := op()
	if opErr != nil {
		s.log.Error("wishlist mutation failed", "action", action, "error", opErr)
	}
	_ = s.Refresh(ctx)
	return opErr
}

// Contains reports whether the product is on the wishlist.
func (s *Store) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the wishlist entries.
func (s *Store) Items() []domain.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.WishlistItem{}, s.items...)
}

// Count returns the number of wishlist entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) set(items []domain.WishlistItem) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}
