// Package catalog provides client-side filtering and sorting over product
// listings already fetched from the backend.
package catalog

import (
	"sort"
	"strings"

	"github.com/jewelcca/storefront/internal/domain"
)

// Sort keys accepted by SortBy.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
	SortName      = "name"
)

// FilterInStock returns the products currently in stock.
func FilterInStock(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.InStock {
			out = append(out, p)
		}
	}
	return out
}

// FilterByMaterial returns products containing the given material.
func FilterByMaterial(products []domain.Product, material string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.HasMaterial(material) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByPriceRange returns products with min <= price <= max. A max of 0
// means no upper bound.
func FilterByPriceRange(products []domain.Product, min, max float64) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Price < min {
			continue
		}
		if max > 0 && p.Price > max {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SearchName returns products whose name contains the query, case-insensitively.
func SearchName(products []domain.Product, query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// SortBy returns a sorted copy of products. Unknown keys leave the order
// unchanged. Rating sorts highest first.
func SortBy(products []domain.Product, key string) []domain.Product {
	out := append([]domain.Product{}, products...)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}

	return out
}
