package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelvinsinsua/scalaya-backend/internal/catalog"
	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

func testProduct(price string, stock int) *catalog.Product {
	p := catalog.NewProduct()
	p.ID = 1
	p.Name = "Widget"
	p.SKU = "WID-001"
	p.SellingPrice = money.MustParse(price)
	p.StockLevel = stock
	return p
}

func TestNewOrderItemDefaults(t *testing.T) {
	item := NewOrderItem()
	assert.Equal(t, 1, item.Quantity())
	assert.Equal(t, "0.00", item.UnitPrice().String())
	assert.Equal(t, "0.00", item.LineTotal().String())
	assert.Nil(t, item.Product())
	assert.Nil(t, item.Order())
}

func TestLineTotalInvariant(t *testing.T) {
	item := NewOrderItem()
	item.SetUnitPrice(money.MustParse("10.333"))
	item.SetQuantity(3)
	// 3 x 10.333 = 30.999 -> 31.00
	assert.Equal(t, "31.00", item.LineTotal().String())

	item.SetQuantity(2)
	assert.Equal(t, "20.67", item.LineTotal().String())

	item.SetUnitPrice(money.MustParse("5.00"))
	assert.Equal(t, "10.00", item.LineTotal().String())
}

func TestPriceInheritedFromProduct(t *testing.T) {
	item := NewOrderItem()
	item.SetProduct(testProduct("25.50", 10))

	assert.Equal(t, "25.50", item.UnitPrice().String())
	assert.Equal(t, "25.50", item.LineTotal().String())
}

func TestExplicitPriceWinsOverProduct(t *testing.T) {
	item := NewOrderItem()
	item.SetUnitPrice(money.MustParse("9.99"))
	item.SetProduct(testProduct("25.50", 10))

	assert.Equal(t, "9.99", item.UnitPrice().String())
	assert.Equal(t, "9.99", item.LineTotal().String())
}

func TestPriceClaimedOnce(t *testing.T) {
	product := testProduct("25.50", 10)
	item := NewOrderItem()
	item.SetProduct(product)
	assert.Equal(t, "25.50", item.UnitPrice().String())

	// the price belongs to the item now: a later product price change
	// must not leak into it
	product.SellingPrice = money.MustParse("99.99")
	item.SetQuantity(2)
	assert.Equal(t, "25.50", item.UnitPrice().String())
	assert.Equal(t, "51.00", item.LineTotal().String())
}

func TestNonPositiveQuantityZeroesTotal(t *testing.T) {
	item := NewOrderItem()
	item.SetUnitPrice(money.MustParse("10.00"))
	item.SetQuantity(3)
	assert.Equal(t, "30.00", item.LineTotal().String())

	item.SetQuantity(0)
	assert.Equal(t, "0.00", item.LineTotal().String())

	item.SetQuantity(-1)
	assert.Equal(t, "0.00", item.LineTotal().String())
}

func TestProductAccessors(t *testing.T) {
	item := NewOrderItem()
	assert.Equal(t, "", item.ProductName())
	assert.Equal(t, "", item.ProductSKU())
	assert.Equal(t, "Unknown Product (x1)", item.String())

	item.SetProduct(testProduct("5.00", 3))
	item.SetQuantity(2)
	assert.Equal(t, "Widget", item.ProductName())
	assert.Equal(t, "WID-001", item.ProductSKU())
	assert.Equal(t, "Widget (x2)", item.String())
}
