// Package apitest provides an in-process storefront backend for tests and
// local development. It implements the same routes, JSON envelope and error
// codes as the production API so the client can be exercised end to end
// without network access.
package apitest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jewelcca/storefront/internal/domain"
	apperrors "github.com/jewelcca/storefront/pkg/errors"
	"github.com/jewelcca/storefront/pkg/httputil"
	"github.com/jewelcca/storefront/pkg/logger"
	"github.com/jewelcca/storefront/pkg/slug"
)

// signingSecret signs fake provider confirmations. Test-only value.
const signingSecret = "apitest-provider-secret"

// account is a registered user plus its password.
type account struct {
	user     domain.User
	password string
}

// Server is the fake backend. All state lives in memory under one mutex;
// the handler is safe for concurrent use.
type Server struct {
	mu sync.Mutex

	log    *slog.Logger
	router chi.Router

	accounts       map[string]*account // keyed by email
	tokens         map[string]string   // token -> user ID
	resetTokens    map[string]string   // reset token -> email
	products       map[string]domain.Product
	productIDs     []string // insertion order
	categories     []domain.Category
	carts          map[string]*domain.Cart          // user ID -> cart
	wishlists      map[string][]domain.WishlistItem // user ID -> items
	orders         map[string]*domain.Order         // order ID -> order
	orderIDs       []string
	providerOrders map[string]string // provider order ID -> order ID
	addresses      map[string][]domain.Address
	reviews        map[string][]domain.Review // product ID -> reviews
	offers         []domain.Offer
	events         []domain.Event

	// FailPaymentVerification forces every /payments/verify call to be
	// rejected, regardless of signature.
	FailPaymentVerification bool

	// CartQuantityHook, when set, rewrites the quantity the server stores
	// for a cart add. It lets tests make the server-side cart diverge from
	// what the client requested, the way stock caps do in production.
	CartQuantityHook func(productID string, requested int) int
}

// New creates a fake backend with empty state.
func New() *Server {
	s := &Server{
		log:            logger.New("apitest", "error"),
		accounts:       make(map[string]*account),
		tokens:         make(map[string]string),
		resetTokens:    make(map[string]string),
		products:       make(map[string]domain.Product),
		carts:          make(map[string]*domain.Cart),
		wishlists:      make(map[string][]domain.WishlistItem),
		orders:         make(map[string]*domain.Order),
		providerOrders: make(map[string]string),
		addresses:      make(map[string][]domain.Address),
		reviews:        make(map[string][]domain.Review),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving the fake API under /api.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/forgot-password", s.handleForgotPassword)
		r.Post("/auth/reset-password", s.handleResetPassword)

		r.Get("/products", s.handleListProducts)
		r.Get("/products/featured", s.handleFeaturedProducts)
		r.Get("/products/top-rated", s.handleTopRatedProducts)
		r.Get("/products/price-range", s.handleProductsByPriceRange)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Get("/products/{id}/reviews", s.handleListReviews)
		r.Get("/categories", s.handleListCategories)
		r.Get("/categories/{slug}", s.handleGetCategory)
		r.Get("/offers", s.handleListOffers)
		r.Get("/offers/code/{code}", s.handleGetOfferByCode)
		r.Get("/offers/{id}", s.handleGetOffer)
		r.Get("/events", s.handleListEvents)
		r.Get("/events/{id}", s.handleGetEvent)

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/auth/change-password", s.handleChangePassword)

			r.Get("/users/me", s.handleProfile)
			r.Put("/users/me", s.handleUpdateProfile)
			r.Get("/users/me/addresses", s.handleListAddresses)
			r.Post("/users/me/addresses", s.handleCreateAddress)
			r.Put("/users/me/addresses/{id}", s.handleUpdateAddress)
			r.Put("/users/me/addresses/{id}/default", s.handleSetDefaultAddress)
			r.Delete("/users/me/addresses/{id}", s.handleDeleteAddress)

			r.Get("/cart", s.handleGetCart)
			r.Post("/cart/items", s.handleAddCartItem)
			r.Put("/cart/items/{productId}", s.handleUpdateCartItem)
			r.Delete("/cart/items/{productId}", s.handleRemoveCartItem)
			r.Delete("/cart", s.handleClearCart)

			r.Get("/wishlist", s.handleGetWishlist)
			r.Post("/wishlist", s.handleAddWishlistItem)
			r.Get("/wishlist/check/{productId}", s.handleCheckWishlistItem)
			r.Delete("/wishlist/{productId}", s.handleRemoveWishlistItem)

			r.Post("/orders", s.handleCreateOrder)
			r.Get("/orders", s.handleListOrders)
			r.Get("/orders/number/{number}", s.handleGetOrderByNumber)
			r.Get("/orders/{id}", s.handleGetOrder)

			r.Post("/payments/provider-order", s.handleCreateProviderOrder)
			r.Post("/payments/verify", s.handleVerifyPayment)

			r.Post("/products/{id}/reviews", s.handleCreateReview)
			r.Put("/reviews/{id}", s.handleUpdateReview)
			r.Delete("/reviews/{id}", s.handleDeleteReview)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Post("/admin/products", s.handleAdminCreateProduct)
				r.Put("/admin/products/{id}", s.handleAdminUpdateProduct)
				r.Put("/admin/products/{id}/stock", s.handleAdminUpdateStock)
				r.Delete("/admin/products/{id}", s.handleAdminDeleteProduct)
				r.Get("/admin/products/low-stock", s.handleAdminLowStock)
				r.Get("/admin/orders", s.handleAdminListOrders)
				r.Get("/admin/orders/recent", s.handleAdminRecentOrders)
				r.Put("/admin/orders/{id}/status", s.handleAdminUpdateOrderStatus)
				r.Put("/admin/orders/{id}/tracking", s.handleAdminUpdateOrderTracking)
				r.Get("/admin/stats", s.handleAdminStats)
				r.Get("/admin/stats/sales", s.handleAdminSalesChart)
				r.Get("/admin/stats/top-products", s.handleAdminTopProducts)
				r.Get("/admin/users", s.handleAdminListUsers)
				r.Put("/admin/users/{id}/status", s.handleAdminUpdateUserStatus)
				r.Put("/admin/users/{id}/role", s.handleAdminUpdateUserRole)
				r.Post("/admin/offers", s.handleAdminCreateOffer)
				r.Put("/admin/offers/{id}", s.handleAdminUpdateOffer)
				r.Delete("/admin/offers/{id}", s.handleAdminDeleteOffer)
				r.Post("/admin/categories", s.handleAdminCreateCategory)
				r.Put("/admin/categories/{id}", s.handleAdminUpdateCategory)
				r.Delete("/admin/categories/{id}", s.handleAdminDeleteCategory)
				r.Get("/admin/events", s.handleAdminListEvents)
				r.Post("/admin/events", s.handleAdminCreateEvent)
				r.Delete("/admin/events/{id}", s.handleAdminDeleteEvent)
			})
		})
	})

	return r
}

type contextKey string

const userKey contextKey = "apitest_user"

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), s.log)
			return
		}

		s.mu.Lock()
		userID, ok := s.tokens[token]
		var user domain.User
		if ok {
			user = s.userByID(userID)
		}
		s.mu.Unlock()

		if !ok {
			httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired token"), s.log)
			return
		}

		ctx := contextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		if !user.IsAdmin() {
			httputil.WriteError(w, r, apperrors.Forbidden("admin role required"), s.log)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

// userByID must be called with s.mu held.
func (s *Server) userByID(id string) domain.User {
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc.user
		}
	}
	return domain.User{}
}

// SeedUser registers an account directly and returns its user record.
func (s *Server) SeedUser(email, password, role string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := domain.User{
		ID:      uuid.NewString(),
		Email:   email,
		Role:    role,
		Enabled: true,
	}
	s.accounts[email] = &account{user: u, password: password}
	return u
}

// SeedProduct inserts a product, assigning an ID if empty.
func (s *Server) SeedProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := s.products[p.ID]; !exists {
		s.productIDs = append(s.productIDs, p.ID)
	}
	s.products[p.ID] = p
	return p
}

// SeedCategory inserts a category, deriving its slug from the name if empty.
func (s *Server) SeedCategory(c domain.Category) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	s.categories = append(s.categories, c)
	return c
}

// SeedOffer inserts a promotional offer.
func (s *Server) SeedOffer(o domain.Offer) domain.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	s.offers = append(s.offers, o)
	return o
}

// SeedEvent inserts a store event.
func (s *Server) SeedEvent(e domain.Event) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.events = append(s.events, e)
	return e
}

// Order returns a stored order by ID, or nil.
func (s *Server) Order(id string) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil
	}
	cp := *o
	return &cp
}

// Cart returns a copy of the stored cart for the given user ID.
func (s *Server) Cart(userID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[userID]; ok {
		return domain.Cart{Items: append([]domain.CartItem{}, c.Items...)}
	}
	return domain.Cart{Items: []domain.CartItem{}}
}

// RevokeToken invalidates a previously issued token, simulating server-side
// session expiry.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Signature computes the confirmation signature the fake provider expects for
// the given provider order and payment IDs.
func Signature(providerOrderID, providerPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(signingSecret))
	fmt.Fprintf(mac, "%s|%s", providerOrderID, providerPaymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

func newOrderNumber() string {
	return fmt.Sprintf("JW-%d", time.Now().UnixMilli())
}
