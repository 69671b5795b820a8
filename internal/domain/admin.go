package domain

// DashboardStats is the admin console's summary card data.
type DashboardStats struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// SalesPoint is one day of the admin sales chart.
type SalesPoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// ProductSales pairs a product with its units sold, for the top-products
// dashboard table.
type ProductSales struct {
	Product   Product `json:"product"`
	UnitsSold int     `json:"unitsSold"`
}
