package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jewelcca/storefront/internal/domain"
	apperrors "github.com/jewelcca/storefront/pkg/errors"
	"github.com/jewelcca/storefront/pkg/httputil"
	"github.com/jewelcca/storefront/pkg/slug"
)

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := domain.DashboardStats{
		TotalUsers:    len(s.accounts),
		TotalProducts: len(s.products),
		TotalOrders:   len(s.orders),
	}
	for _, o := range s.orders {
		stats.TotalRevenue += o.TotalAmount
	}
	s.mu.Unlock()

	ok(w, stats)
}

func (s *Server) handleAdminSalesChart(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	byDay := make(map[string]*domain.SalesPoint, days)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]domain.SalesPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		points = append(points, domain.SalesPoint{Date: date})
		byDay[date] = &points[len(points)-1]
	}

	s.mu.Lock()
	for _, o := range s.orders {
		if p, found := byDay[o.CreatedAt.UTC().Format("2006-01-02")]; found {
			p.Orders++
			p.Revenue += o.TotalAmount
		}
	}
	s.mu.Unlock()

	ok(w, points)
}

func (s *Server) handleAdminTopProducts(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	s.mu.Lock()
	units := make(map[string]int)
	for _, o := range s.orders {
		for _, item := range o.Items {
			units[item.Product.ID] += item.Quantity
		}
	}
	top := make([]domain.ProductSales, 0, len(units))
	for productID, sold := range units {
		if p, found := s.products[productID]; found {
			top = append(top, domain.ProductSales{Product: p, UnitsSold: sold})
		}
	}
	s.mu.Unlock()

	sort.SliceStable(top, func(i, j int) bool { return top[i].UnitsSold > top[j].UnitsSold })
	if len(top) > limit {
		top = top[:limit]
	}
	ok(w, top)
}

func (s *Server) handleAdminRecentOrders(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	s.mu.Lock()
	recent := make([]domain.Order, 0, limit)
	for i := len(s.orderIDs) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, *s.orders[s.orderIDs[i]])
	}
	s.mu.Unlock()

	ok(w, recent)
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	s.mu.Lock()
	users := make([]domain.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		u := acc.user
		if search != "" && !containsFold(u.Email, search) && !containsFold(u.FullName(), search) {
			continue
		}
		users = append(users, u)
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	ok(w, users)
}

func (s *Server) handleAdminUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in struct {
		Enabled bool `json:"enabled"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			acc.user.Enabled = in.Enabled
			ok(w, acc.user)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("user", id), s.log)
}

func (s *Server) handleAdminUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in struct {
		Role string `json:"role"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}
	if in.Role != domain.RoleUser && in.Role != domain.RoleAdmin {
		httputil.WriteError(w, r, apperrors.InvalidInput("unknown role"), s.log)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			acc.user.Role = in.Role
			ok(w, acc.user)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("user", id), s.log)
}

func (s *Server) handleAdminLowStock(w http.ResponseWriter, r *http.Request) {
	threshold := 5
	if v := r.URL.Query().Get("threshold"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			threshold = n
		}
	}

	s.mu.Lock()
	low := make([]domain.Product, 0)
	for _, id := range s.productIDs {
		if p := s.products[id]; p.StockQuantity <= threshold {
			low = append(low, p)
		}
	}
	s.mu.Unlock()

	ok(w, low)
}

func (s *Server) handleAdminUpdateStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in struct {
		StockQuantity int `json:"stockQuantity"`
	}
	if err := decode(r, &in); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}
	if in.StockQuantity < 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("stock quantity must not be negative"), s.log)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.products[id]
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), s.log)
		return
	}
	p.StockQuantity = in.StockQuantity
	p.InStock = in.StockQuantity > 0
	s.products[id] = p
	ok(w, p)
}

func (s *Server) handleAdminCreateOffer(w http.ResponseWriter, r *http.Request) {
	var o domain.Offer
	if err := decode(r, &o); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	s.offers = append(s.offers, o)
	s.mu.Unlock()

	created(w, o)
}

func (s *Server) handleAdminUpdateOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var o domain.Offer
	if err := decode(r, &o); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.offers {
		if s.offers[i].ID == id {
			o.ID = id
			s.offers[i] = o
			ok(w, o)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("offer", id), s.log)
}

func (s *Server) handleAdminDeleteOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.offers {
		if o.ID == id {
			s.offers = append(s.offers[:i], s.offers[i+1:]...)
			ok(w, map[string]string{"status": "deleted"})
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("offer", id), s.log)
}

func (s *Server) handleAdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c domain.Category
	if err := decode(r, &c); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	s.categories = append(s.categories, c)
	s.mu.Unlock()

	created(w, c)
}

func (s *Server) handleAdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var c domain.Category
	if err := decode(r, &c); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			c.ID = id
			if c.Slug == "" {
				c.Slug = slug.Generate(c.Name)
			}
			s.categories[i] = c
			ok(w, c)
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("category", id), s.log)
}

func (s *Server) handleAdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			ok(w, map[string]string{"status": "deleted"})
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("category", id), s.log)
}

func (s *Server) handleAdminListEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	events := append([]domain.Event{}, s.events...)
	s.mu.Unlock()
	ok(w, events)
}

func (s *Server) handleAdminCreateEvent(w http.ResponseWriter, r *http.Request) {
	var e domain.Event
	if err := decode(r, &e); err != nil {
		httputil.WriteError(w, r, err, s.log)
		return
	}

	s.mu.Lock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.events = append(s.events, e)
	s.mu.Unlock()

	created(w, e)
}

func (s *Server) handleAdminDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			ok(w, map[string]string{"status": "deleted"})
			return
		}
	}
	httputil.WriteError(w, r, apperrors.NotFound("event", id), s.log)
}
