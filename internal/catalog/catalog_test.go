package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jewelcca/storefront/internal/domain"
)

var products = []domain.Product{
	{ID: "p-1", Name: "Aurora Diamond Ring", Price: 450, Rating: 4.8, InStock: true, Materials: []string{"gold", "diamond"}},
	{ID: "p-2", Name: "Silver Hoop Earrings", Price: 85, Rating: 4.2, InStock: false, Materials: []string{"silver"}},
	{ID: "p-3", Name: "Pearl Necklace", Price: 220, Rating: 4.5, InStock: true, Materials: []string{"pearl", "silver"}},
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestFilterInStock(t *testing.T) {
	assert.Equal(t, []string{"p-1", "p-3"}, ids(FilterInStock(products)))
}

func TestFilterByMaterial(t *testing.T) {
	assert.Equal(t, []string{"p-2", "p-3"}, ids(FilterByMaterial(products, "silver")))
	assert.Empty(t, FilterByMaterial(products, "platinum"))
}

func TestFilterByPriceRange(t *testing.T) {
	assert.Equal(t, []string{"p-3"}, ids(FilterByPriceRange(products, 100, 300)))
	// Max of zero means no upper bound.
	assert.Equal(t, []string{"p-1", "p-3"}, ids(FilterByPriceRange(products, 100, 0)))
}

func TestSearchName(t *testing.T) {
	assert.Equal(t, []string{"p-3"}, ids(SearchName(products, "PEARL")))
	assert.Equal(t, products, SearchName(products, "  "))
	assert.Empty(t, SearchName(products, "bracelet"))
}

func TestSortBy(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{SortPriceAsc, []string{"p-2", "p-3", "p-1"}},
		{SortPriceDesc, []string{"p-1", "p-3", "p-2"}},
		{SortRating, []string{"p-1", "p-3", "p-2"}},
		{SortName, []string{"p-1", "p-3", "p-2"}},
		{"unknown", []string{"p-1", "p-2", "p-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SortBy(products, tt.key)))
		})
	}
}

func TestSortBy_DoesNotMutateInput(t *testing.T) {
	before := ids(products)
	SortBy(products, SortPriceAsc)
	assert.Equal(t, before, ids(products))
}
