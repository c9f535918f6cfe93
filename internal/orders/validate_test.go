package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

// consistentOrder builds an order whose stored totals agree with its
// items: 2 x 20.00 + 1 x 30.00, tax 7.00, shipping 5.00.
func consistentOrder() *Order {
	o := NewOrder()

	item1 := NewOrderItem()
	item1.SetUnitPrice(money.MustParse("20.00"))
	item1.SetQuantity(2)
	o.AddItem(item1)

	item2 := NewOrderItem()
	item2.SetUnitPrice(money.MustParse("30.00"))
	item2.SetQuantity(1)
	o.AddItem(item2)

	o.SetTaxAmount(money.MustParse("7.00"))
	o.SetShippingAmount(money.MustParse("5.00"))
	o.CalculateTotals()
	return o
}

func TestValidateTotalsConsistent(t *testing.T) {
	o := consistentOrder()
	assert.True(t, ValidateTotals(o).Empty())
}

func TestValidateTotalsSubtotalMismatch(t *testing.T) {
	o := consistentOrder()
	o.SetSubtotal(money.MustParse("60.00"))

	vs := ValidateTotals(o)
	subtotal := vs.On("subtotal")
	require.Len(t, subtotal, 1)
	assert.Equal(t, "order.subtotal.mismatch", subtotal[0].Code)
	assert.Equal(t, "70.00", subtotal[0].Params["expected"])
	assert.Equal(t, "60.00", subtotal[0].Params["actual"])

	// the stored subtotal also throws off the stored total
	total := vs.On("totalAmount")
	require.Len(t, total, 1)
	assert.Equal(t, "order.total_amount.mismatch", total[0].Code)
}

func TestValidateTotalsTotalMismatch(t *testing.T) {
	o := consistentOrder()
	o.SetTotalAmount(money.MustParse("99.00"))

	vs := ValidateTotals(o)
	assert.True(t, vs.On("subtotal").Empty())

	total := vs.On("totalAmount")
	require.Len(t, total, 1)
	assert.Equal(t, "order.total_amount.mismatch", total[0].Code)
	assert.Equal(t, "82.00", total[0].Params["expected"])
	assert.Equal(t, "99.00", total[0].Params["actual"])
}

func TestValidateTotalsWithinTolerance(t *testing.T) {
	o := consistentOrder()
	o.SetTotalAmount(money.MustParse("82.01"))
	assert.True(t, ValidateTotals(o).Empty())

	o.SetTotalAmount(money.MustParse("82.02"))
	assert.False(t, ValidateTotals(o).On("totalAmount").Empty())
}

func TestValidateTotalsEmptyItems(t *testing.T) {
	o := NewOrder()
	o.CalculateTotals()

	vs := ValidateTotals(o)
	items := vs.On("orderItems")
	require.Len(t, items, 1)
	assert.Equal(t, "order.order_items.empty", items[0].Code)
	// a zero total is exempt from the minimum
	assert.True(t, vs.On("totalAmount").Empty())
}

func TestValidateTotalsMinimum(t *testing.T) {
	o := NewOrder()
	item := NewOrderItem()
	item.SetUnitPrice(money.MustParse("0.50"))
	o.AddItem(item)
	o.CalculateTotals()

	vs := ValidateTotals(o)
	total := vs.On("totalAmount")
	require.Len(t, total, 1)
	assert.Equal(t, "order.total_amount.minimum", total[0].Code)
	assert.Equal(t, "1.00", total[0].Params["minimum"])
}

func TestValidateTotalsMinimumBoundary(t *testing.T) {
	o := NewOrder()
	item := NewOrderItem()
	item.SetUnitPrice(money.MustParse("1.00"))
	o.AddItem(item)
	o.CalculateTotals()

	assert.True(t, ValidateTotals(o).Empty())
}

func TestValidateTotalsReportsAllProblems(t *testing.T) {
	// empty order with fabricated totals: subtotal mismatch, total
	// mismatch, empty items and minimum all fire in one pass
	o := NewOrder()
	o.SetSubtotal(money.MustParse("0.30"))
	o.SetTotalAmount(money.MustParse("0.70"))

	vs := ValidateTotals(o)
	assert.Len(t, vs, 4)
}

func TestValidateStockInsufficient(t *testing.T) {
	item := NewOrderItem()
	item.SetProduct(testProduct("10.00", 2))
	item.SetQuantity(3)

	vs := ValidateStock(item)
	require.Len(t, vs, 1)
	assert.Equal(t, "order_item.insufficient_stock", vs[0].Code)
	assert.Equal(t, "quantity", vs[0].Path)
	assert.Equal(t, "3", vs[0].Params["requested"])
	assert.Equal(t, "2", vs[0].Params["available"])
}

func TestValidateStockExactMatchPasses(t *testing.T) {
	item := NewOrderItem()
	item.SetProduct(testProduct("10.00", 3))
	item.SetQuantity(3)

	assert.True(t, ValidateStock(item).Empty())
}

func TestValidateStockUnavailableProduct(t *testing.T) {
	product := testProduct("10.00", 5)
	product.Status = "discontinued"

	item := NewOrderItem()
	item.SetProduct(product)

	vs := ValidateStock(item)
	require.Len(t, vs, 1)
	assert.Equal(t, "order_item.product_not_available", vs[0].Code)
	assert.Equal(t, "product", vs[0].Path)
	assert.Equal(t, "discontinued", vs[0].Params["status"])
}

func TestValidateStockNoProduct(t *testing.T) {
	item := NewOrderItem()
	item.SetQuantity(10)
	assert.Nil(t, ValidateStock(item))
}

func TestValidateOrderPrefixesItemPaths(t *testing.T) {
	o := NewOrder()

	ok := NewOrderItem()
	ok.SetProduct(testProduct("20.00", 10))
	ok.SetQuantity(2)
	o.AddItem(ok)

	short := NewOrderItem()
	short.SetProduct(testProduct("30.00", 1))
	short.SetQuantity(4)
	o.AddItem(short)

	o.CalculateTotals()

	vs := ValidateOrder(o)
	require.Len(t, vs, 1)
	assert.Equal(t, "orderItems[1].quantity", vs[0].Path)
	assert.Equal(t, "order_item.insufficient_stock", vs[0].Code)
}
