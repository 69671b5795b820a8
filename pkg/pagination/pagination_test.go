package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)
	p := FromRequest(r)
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 20, p.Size)
}

func TestFromRequest_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?page=2&size=5", nil)
	p := FromRequest(r)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.Size)
	assert.Equal(t, 10, p.Offset())
}

func TestFromRequest_IgnoresInvalid(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?page=-1&size=9999", nil)
	p := FromRequest(r)
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 20, p.Size)
}

func TestNewResult(t *testing.T) {
	res := NewResult([]int{1, 2, 3}, 7, Params{Page: 0, Size: 3})
	assert.Equal(t, 7, res.TotalElements)
	assert.Equal(t, 3, res.TotalPages)
	assert.False(t, res.Last)

	res = NewResult([]int{7}, 7, Params{Page: 2, Size: 3})
	assert.True(t, res.Last)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Slice(items, Params{Page: 0, Size: 2}))
	assert.Equal(t, []int{5}, Slice(items, Params{Page: 2, Size: 2}))
	assert.Empty(t, Slice(items, Params{Page: 9, Size: 2}))
}
