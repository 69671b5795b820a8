package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/pkg/pagination"
)

// Admin operations require a session whose user holds the ADMIN role. The
// backend enforces this; these methods simply surface its 403 as an error.

// AdminCreateProduct adds a product to the catalog.
func (c *Client) AdminCreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	var created domain.Product
	if err := c.post(ctx, "/admin/products", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AdminUpdateProduct replaces an existing product.
func (c *Client) AdminUpdateProduct(ctx context.Context, p domain.Product) error {
	return c.put(ctx, "/admin/products/"+url.PathEscape(p.ID), p, nil)
}

// AdminDeleteProduct removes a product from the catalog.
func (c *Client) AdminDeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/products/"+url.PathEscape(id))
}

// AdminOrderQuery filters the all-orders listing.
type AdminOrderQuery struct {
	Status string
	Search string // matched against order numbers
	Page   int
	Size   int
}

// AdminListOrders fetches a page of all orders across users.
func (c *Client) AdminListOrders(ctx context.Context, q AdminOrderQuery) (*pagination.Result[domain.Order], error) {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}

	var result pagination.Result[domain.Order]
	if err := c.get(ctx, "/admin/orders"+queryString(v), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminRecentOrders fetches the newest orders across all users.
func (c *Client) AdminRecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}

	var orders []domain.Order
	if err := c.get(ctx, "/admin/orders/recent"+queryString(v), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminUpdateOrderStatus moves an order to a new status.
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, orderID, status string) error {
	body := map[string]string{"status": status}
	return c.put(ctx, "/admin/orders/"+url.PathEscape(orderID)+"/status", body, nil)
}

// AdminUpdateOrderTracking attaches a tracking number to an order.
func (c *Client) AdminUpdateOrderTracking(ctx context.Context, orderID, trackingNumber string) error {
	body := map[string]string{"trackingNumber": trackingNumber}
	return c.put(ctx, "/admin/orders/"+url.PathEscape(orderID)+"/tracking", body, nil)
}

// AdminStats fetches the dashboard summary counts.
func (c *Client) AdminStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, "/admin/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminSalesChart fetches per-day order counts and revenue for the last
// days days.
func (c *Client) AdminSalesChart(ctx context.Context, days int) ([]domain.SalesPoint, error) {
	v := url.Values{}
	if days > 0 {
		v.Set("days", strconv.Itoa(days))
	}

	var points []domain.SalesPoint
	if err := c.get(ctx, "/admin/stats/sales"+queryString(v), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// AdminTopProducts fetches the best sellers by units sold.
func (c *Client) AdminTopProducts(ctx context.Context, limit int) ([]domain.ProductSales, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}

	var top []domain.ProductSales
	if err := c.get(ctx, "/admin/stats/top-products"+queryString(v), &top); err != nil {
		return nil, err
	}
	return top, nil
}

// AdminListUsers searches registered users by email or name.
func (c *Client) AdminListUsers(ctx context.Context, search string) ([]domain.User, error) {
	v := url.Values{}
	if search != "" {
		v.Set("search", search)
	}

	var users []domain.User
	if err := c.get(ctx, "/admin/users"+queryString(v), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminUpdateUserStatus enables or disables an account.
func (c *Client) AdminUpdateUserStatus(ctx context.Context, userID string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	return c.put(ctx, "/admin/users/"+url.PathEscape(userID)+"/status", body, nil)
}

// AdminUpdateUserRole changes an account's role.
func (c *Client) AdminUpdateUserRole(ctx context.Context, userID, role string) error {
	body := map[string]string{"role": role}
	return c.put(ctx, "/admin/users/"+url.PathEscape(userID)+"/role", body, nil)
}

// AdminLowStockProducts lists products at or below the stock threshold.
func (c *Client) AdminLowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error) {
	v := url.Values{}
	if threshold > 0 {
		v.Set("threshold", strconv.Itoa(threshold))
	}

	var products []domain.Product
	if err := c.get(ctx, "/admin/products/low-stock"+queryString(v), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AdminUpdateStock sets a product's stock quantity. Zero marks the product
// out of stock.
func (c *Client) AdminUpdateStock(ctx context.Context, productID string, quantity int) error {
	body := map[string]int{"stockQuantity": quantity}
	return c.put(ctx, "/admin/products/"+url.PathEscape(productID)+"/stock", body, nil)
}

// AdminCreateCategory adds a product category.
func (c *Client) AdminCreateCategory(ctx context.Context, cat domain.Category) (*domain.Category, error) {
	var created domain.Category
	if err := c.post(ctx, "/admin/categories", cat, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AdminUpdateCategory replaces an existing category.
func (c *Client) AdminUpdateCategory(ctx context.Context, cat domain.Category) error {
	return c.put(ctx, "/admin/categories/"+url.PathEscape(cat.ID), cat, nil)
}

// AdminDeleteCategory removes a product category.
func (c *Client) AdminDeleteCategory(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/categories/"+url.PathEscape(id))
}
