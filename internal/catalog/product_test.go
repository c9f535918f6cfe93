package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

func TestNewProductDefaults(t *testing.T) {
	p := NewProduct()
	assert.Equal(t, StatusAvailable, p.Status)
	assert.NotNil(t, p.Images)
	assert.Equal(t, 0, p.StockLevel)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestIsAvailable(t *testing.T) {
	cases := []struct {
		name   string
		status Status
		stock  int
		want   bool
	}{
		{"available with stock", StatusAvailable, 5, true},
		{"available without stock", StatusAvailable, 0, false},
		{"out of stock flag", StatusOutOfStock, 5, false},
		{"discontinued", StatusDiscontinued, 5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProduct()
			p.Status = tc.status
			p.StockLevel = tc.stock
			assert.Equal(t, tc.want, p.IsAvailable())
		})
	}
}

func TestIsInStock(t *testing.T) {
	p := NewProduct()
	assert.False(t, p.IsInStock())
	p.StockLevel = 1
	assert.True(t, p.IsInStock())
}

func TestMargin(t *testing.T) {
	p := NewProduct()
	p.CostPrice = money.MustParse("10.00")
	p.SellingPrice = money.MustParse("15.00")
	assert.InDelta(t, 50.0, p.Margin(), 0.0001)
}

func TestMarginZeroCost(t *testing.T) {
	p := NewProduct()
	p.SellingPrice = money.MustParse("15.00")
	assert.Equal(t, 0.0, p.Margin())
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseStatus("retired")
	assert.Error(t, err)
}
