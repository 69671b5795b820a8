package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/internal/pricing"
	apperrors "github.com/jewelcca/storefront/pkg/errors"
	"github.com/jewelcca/storefront/pkg/httputil"
	"github.com/jewelcca/storefront/pkg/pagination"
)

func contextWithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func userFromContext(ctx context.Context) domain.User {
	u, _ := ctx.Value(userKey).(domain.User)
	return u
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.InvalidInput("malformed request body")
	}
	return nil
}

func ok(w http.ResponseWriter, data any) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: data})
}

func created(w http.ResponseWriter, data any) {
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: data})
}

// --- auth ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[in.Email]
	if !ok || acc.password != in.Password {
		s.mu.Unlock()
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid credentials"), s.log)
		return
	}
	token := "tok-" + uuid.NewString()
	s.tokens[token] = acc.user.ID
	user := acc.user
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"token": token,
		"user":  user,
	}})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[in.Email]; exists {
		s.mu.Unlock()
		httputil.WriteError(w, r, apperrors.AlreadyExists("user", "email", in.Email), s.log)
		return
	}
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      domain.RoleUser,
		Enabled:   true,
	}
	s.accounts[in.Email] = &account{user: user, password: in.Password}
	token := "tok-" + uuid.NewString()
	s.tokens[token] = user.ID
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]any{
		"token": token,
		"user":  user,
	}})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[in.Email]; exists {
		s.resetTokens["reset-"+in.Email] = in.Email
	}
	s.mu.Unlock()

	// Same response whether or not the account exists.
	ok(w, map[string]string{"status": "sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	email, valid := s.resetTokens[in.Token]
	if valid {
		s.accounts[email].password = in.NewPassword
		delete(s.resetTokens, in.Token)
	}
	s.mu.Unlock()

	if !valid {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid or expired reset token"), s.log)
		return
	}
	ok(w, map[string]string{"status": "reset"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	acc := s.accounts[user.Email]
	if acc == nil || acc.password != in.CurrentPassword {
		s.mu.Unlock()
		httputil.WriteError(w, r, apperrors.InvalidInput("current password is incorrect"), s.log)
		return
	}
	acc.password = in.NewPassword
	s.mu.Unlock()

	ok(w, map[string]string{"status": "changed"})
}

// --- catalog ---

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	s.mu.Lock()
	var matched []domain.Product
	for _, id := range s.productIDs {
		p := s.products[id]
		if category != "" && p.CategorySlug != category {
			continue
		}
		if search != "" && !containsFold(p.Name, search) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	page := pagination.Slice(matched, params)
	ok(w, pagination.NewResult(page, len(matched), params))
}

func (s *Server) handleFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var featured []domain.Product
	for _, id := range s.productIDs {
		p := s.products[id]
		for _, tag := range p.Tags {
			if tag == "featured" {
				featured = append(featured, p)
				break
			}
		}
	}
	s.mu.Unlock()

	if featured == nil {
		featured = []domain.Product{}
	}
	ok(w, featured)
}

func (s *Server) handleTopRatedProducts(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	s.mu.Lock()
	rated := make([]domain.Product, 0, len(s.productIDs))
	for _, id := range s.productIDs {
		rated = append(rated, s.products[id])
	}
	s.mu.Unlock()

	sort.SliceStable(rated, func(i, j int) bool { return rated[i].Rating > rated[j].Rating })
	if len(rated) > limit {
		rated = rated[:limit]
	}
	ok(w, rated)
}

func (s *Server) handleProductsByPriceRange(w http.ResponseWriter, r *http.Request) {
	min, _ := strconv.ParseFloat(r.URL.Query().Get("min"), 64)
	max := 0.0
	if v := r.URL.Query().Get("max"); v != "" {
		max, _ = strconv.ParseFloat(v, 64)
	}

	s.mu.Lock()
	matched := make([]domain.Product, 0)
	for _, id := range s.productIDs {
		p := s.products[id]
		if p.Price < min {
			continue
		}
		if max > 0 && p.Price > max {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	ok(w, matched)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	p, found := s.products[id]
	s.mu.Unlock()

	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), s.log)
		return
	}
	ok(w, p)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	categories := append([]domain.Category{}, s.categories...)
	s.mu.Unlock()
	ok(w, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	wanted := chi.URLParam(r, "slug")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Slug == wanted {
			ok(w, c)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("category", wanted), s.log)
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	offers := append([]domain.Offer{}, s.offers...)
	s.mu.Unlock()
	ok(w, offers)
}

func (s *Server) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.offers {
		if o.ID == id {
			ok(w, o)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("offer", id), s.log)
}

func (s *Server) handleGetOfferByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.offers {
		if o.Code == code {
			ok(w, o)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("offer", code), s.log)
}

// --- events ---

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	active := make([]domain.Event, 0)
	for _, e := range s.events {
		if e.IsActive {
			active = append(active, e)
		}
	}
	s.mu.Unlock()

	ok(w, active)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			ok(w, e)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("event", id), s.log)
}

// --- cart ---

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	ok(w, s.Cart(user.ID))
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}
	if in.Quantity <= 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("quantity must be positive"), s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	product, found := s.products[in.ProductID]
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("product", in.ProductID), s.log)
		return
	}

	quantity := in.Quantity
	if s.CartQuantityHook != nil {
		quantity = s.CartQuantityHook(in.ProductID, in.Quantity)
	}

	cart := s.carts[user.ID]
	if cart == nil {
		cart = &domain.Cart{}
		s.carts[user.ID] = cart
	}

	if i := cart.FindItem(in.ProductID); i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:       uuid.NewString(),
			Product:  product,
			Quantity: quantity,
		})
	}

	created(w, cart)
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}
	if in.Quantity <= 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("quantity must be positive"), s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[user.ID]
	if cart != nil {
		if i := cart.FindItem(productID); i >= 0 {
			cart.Items[i].Quantity = in.Quantity
			ok(w, cart)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("cart item", productID), s.log)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[user.ID]
	if cart != nil {
		if i := cart.FindItem(productID); i >= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			ok(w, cart)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("cart item", productID), s.log)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	s.mu.Lock()
	s.carts[user.ID] = &domain.Cart{}
	s.mu.Unlock()

	ok(w, domain.Cart{Items: []domain.CartItem{}})
}

// --- wishlist ---

func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	s.mu.Lock()
	items := append([]domain.WishlistItem{}, s.wishlists[user.ID]...)
	s.mu.Unlock()

	ok(w, items)
}

func (s *Server) handleAddWishlistItem(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID string `json:"productId"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	product, found := s.products[in.ProductID]
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("product", in.ProductID), s.log)
		return
	}

	for _, item := range s.wishlists[user.ID] {
		if item.Product.ID == in.ProductID {
			ok(w, item)
			return
		}
	}

	item := domain.WishlistItem{
		ID:      uuid.NewString(),
		Product: product,
		AddedAt: time.Now().UTC(),
	}
	s.wishlists[user.ID] = append(s.wishlists[user.ID], item)
	created(w, item)
}

func (s *Server) handleCheckWishlistItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.wishlists[user.ID] {
		if item.Product.ID == productID {
			ok(w, map[string]bool{"inWishlist": true})
			return
		}
	}
	ok(w, map[string]bool{"inWishlist": false})
}

func (s *Server) handleRemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.wishlists[user.ID]
	for i, item := range items {
		if item.Product.ID == productID {
			s.wishlists[user.ID] = append(items[:i], items[i+1:]...)
			ok(w, map[string]string{"status": "removed"})
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("wishlist item", productID), s.log)
}

// --- orders ---

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ShippingAddress domain.ShippingInfo  `json:"shippingAddress"`
		PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}
	if !in.PaymentMethod.Valid() {
		httputil.WriteError(w, r, apperrors.InvalidInput("unsupported payment method"), s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[user.ID]
	if cart == nil || len(cart.Items) == 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("cart is empty"), s.log)
		return
	}

	status := domain.OrderStatusPending
	if in.PaymentMethod == domain.PaymentMethodCOD {
		status = domain.OrderStatusConfirmed
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     newOrderNumber(),
		UserID:          user.ID,
		Items:           append([]domain.CartItem{}, cart.Items...),
		TotalAmount:     pricing.Quote(cart.Items).Total,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Status:          status,
		CreatedAt:       time.Now().UTC(),
	}
	s.orders[order.ID] = order
	s.orderIDs = append(s.orderIDs, order.ID)

	created(w, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	user := userFromContext(r.Context())

	s.mu.Lock()
	var mine []domain.Order
	for i := len(s.orderIDs) - 1; i >= 0; i-- {
		o := s.orders[s.orderIDs[i]]
		if o.UserID == user.ID {
			mine = append(mine, *o)
		}
	}
	s.mu.Unlock()

	page := pagination.Slice(mine, params)
	ok(w, pagination.NewResult(page, len(mine), params))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := userFromContext(r.Context())

	s.mu.Lock()
	order, found := s.orders[id]
	s.mu.Unlock()

	if !found || (order.UserID != user.ID && !user.IsAdmin()) {
		httputil.WriteError(w, r, apperrors.NotFound("order", id), s.log)
		return
	}
	ok(w, order)
}

func (s *Server) handleGetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderNumber == number && (o.UserID == user.ID || user.IsAdmin()) {
			ok(w, o)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("order", number), s.log)
}

// --- payments ---

func (s *Server) handleCreateProviderOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OrderID string `json:"orderId"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	order, found := s.orders[in.OrderID]
	if !found || order.UserID != user.ID {
		httputil.WriteError(w, r, apperrors.NotFound("order", in.OrderID), s.log)
		return
	}

	providerOrderID := "prov-" + uuid.NewString()
	s.providerOrders[providerOrderID] = order.ID

	ok(w, domain.ProviderOrder{
		ProviderOrderID: providerOrderID,
		Amount:          order.TotalAmount,
		Currency:        "INR",
		KeyID:           "key_test_apitest",
	})
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OrderNumber       string `json:"orderNumber"`
		ProviderOrderID   string `json:"providerOrderId"`
		ProviderPaymentID string `json:"providerPaymentId"`
		Signature         string `json:"signature"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orderID, known := s.providerOrders[in.ProviderOrderID]
	if !known {
		httputil.WriteError(w, r, apperrors.NotFound("provider order", in.ProviderOrderID), s.log)
		return
	}

	expected := Signature(in.ProviderOrderID, in.ProviderPaymentID)
	if s.FailPaymentVerification || in.Signature != expected {
		httputil.WriteError(w, r, apperrors.PaymentFailed("signature verification failed"), s.log)
		return
	}

	order := s.orders[orderID]
	order.Status = domain.OrderStatusConfirmed
	ok(w, order)
}

// --- reviews ---

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	s.mu.Lock()
	reviews := append([]domain.Review{}, s.reviews[productID]...)
	s.mu.Unlock()

	ok(w, reviews)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	var in struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.products[productID]; !found {
		httputil.WriteError(w, r, apperrors.NotFound("product", productID), s.log)
		return
	}

	review := domain.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.FullName(),
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: time.Now().UTC(),
	}
	s.reviews[productID] = append(s.reviews[productID], review)
	created(w, review)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for productID, reviews := range s.reviews {
		for i := range reviews {
			if reviews[i].ID != id {
				continue
			}
			if reviews[i].UserID != user.ID {
				httputil.WriteError(w, r, apperrors.Forbidden("not your review"), s.log)
				return
			}
			reviews[i].Rating = in.Rating
			reviews[i].Comment = in.Comment
			s.reviews[productID] = reviews
			ok(w, reviews[i])
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("review", id), s.log)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for productID, reviews := range s.reviews {
		for i := range reviews {
			if reviews[i].ID != id {
				continue
			}
			if reviews[i].UserID != user.ID && !user.IsAdmin() {
				httputil.WriteError(w, r, apperrors.Forbidden("not your review"), s.log)
				return
			}
			s.reviews[productID] = append(reviews[:i], reviews[i+1:]...)
			ok(w, map[string]string{"status": "deleted"})
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("review", id), s.log)
}

// --- profile and addresses ---

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ok(w, userFromContext(r.Context()))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	acc := s.accounts[user.Email]
	acc.user.FirstName = in.FirstName
	acc.user.LastName = in.LastName
	updated := acc.user
	s.mu.Unlock()

	ok(w, updated)
}

func (s *Server) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	s.mu.Lock()
	addrs := append([]domain.Address{}, s.addresses[user.ID]...)
	s.mu.Unlock()

	ok(w, addrs)
}

func (s *Server) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	var addr domain.Address
	if err := decode(r, &addr); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	addr.ID = uuid.NewString()
	s.addresses[user.ID] = append(s.addresses[user.ID], addr)
	s.mu.Unlock()

	created(w, addr)
}

func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var addr domain.Address
	if err := decode(r, &addr); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.addresses[user.ID] {
		if existing.ID == id {
			addr.ID = id
			s.addresses[user.ID][i] = addr
			ok(w, addr)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("address", id), s.log)
}

func (s *Server) handleSetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	addrs := s.addresses[user.ID]
	found := false
	for i := range addrs {
		addrs[i].IsDefault = addrs[i].ID == id
		if addrs[i].ID == id {
			found = true
		}
	}
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("address", id), s.log)
		return
	}
	ok(w, addrs)
}

func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	addrs := s.addresses[user.ID]
	for i, existing := range addrs {
		if existing.ID == id {
			s.addresses[user.ID] = append(addrs[:i], addrs[i+1:]...)
			ok(w, map[string]string{"status": "deleted"})
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("address", id), s.log)
}

// --- admin ---

func (s *Server) handleAdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := decode(r, &p); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := s.products[p.ID]; !exists {
		s.productIDs = append(s.productIDs, p.ID)
	}
	s.products[p.ID] = p
	s.mu.Unlock()

	created(w, p)
}

func (s *Server) handleAdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p domain.Product
	if err := decode(r, &p); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.products[id]; !found {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), s.log)
		return
	}
	p.ID = id
	s.products[id] = p
	ok(w, p)
}

func (s *Server) handleAdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.products[id]; !found {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), s.log)
		return
	}
	delete(s.products, id)
	for i, pid := range s.productIDs {
		if pid == id {
			s.productIDs = append(s.productIDs[:i], s.productIDs[i+1:]...)
			break
		}
	}
	ok(w, map[string]string{"status": "deleted"})
}

func (s *Server) handleAdminListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	status := r.URL.Query().Get("status")
	search := r.URL.Query().Get("search")

	s.mu.Lock()
	var all []domain.Order
	for i := len(s.orderIDs) - 1; i >= 0; i-- {
		o := *s.orders[s.orderIDs[i]]
		if status != "" && o.Status != status {
			continue
		}
		if search != "" && !containsFold(o.OrderNumber, search) {
			continue
		}
		all = append(all, o)
	}
	s.mu.Unlock()

	page := pagination.Slice(all, params)
	ok(w, pagination.NewResult(page, len(all), params))
}

func (s *Server) handleAdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in struct {
		Status string `json:"status"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	order, found := s.orders[id]
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("order", id), s.log)
		return
	}
	order.Status = in.Status
	ok(w, order)
}

func (s *Server) handleAdminUpdateOrderTracking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in struct {
		TrackingNumber string `json:"trackingNumber"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	order, found := s.orders[id]
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("order", id), s.log)
		return
	}
	order.TrackingNumber = in.TrackingNumber
	order.Status = domain.OrderStatusShipped
	eta := time.Now().UTC().Add(5 * 24 * time.Hour)
	order.EstimatedDelivery = &eta
	ok(w, order)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
