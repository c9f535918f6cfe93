package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

func TestNewOrderCreatedPayload(t *testing.T) {
	o := NewOrder()
	o.CustomerID = 5

	product := testProduct("20.00", 10)
	product.SupplierID = 77

	item := NewOrderItem()
	item.SetProduct(product)
	item.SetQuantity(2)
	o.AddItem(item)

	orphan := NewOrderItem()
	orphan.SetUnitPrice(money.MustParse("30.00"))
	o.AddItem(orphan)

	o.CalculateTotals()

	p := NewOrderCreatedPayload(o)
	assert.Equal(t, o.OrderNumber(), p.OrderNumber)
	assert.Equal(t, int64(5), p.CustomerID)
	assert.Equal(t, "70.00", p.Subtotal)
	assert.Equal(t, "70.00", p.TotalAmount)

	require.Len(t, p.Items, 2)
	assert.Equal(t, int64(77), p.Items[0].SupplierID)
	assert.Equal(t, "WID-001", p.Items[0].SKU)
	assert.Equal(t, "40.00", p.Items[0].LineTotal)
	// product-less lines keep zero IDs rather than being dropped
	assert.Equal(t, int64(0), p.Items[1].ProductID)
	assert.Equal(t, "30.00", p.Items[1].LineTotal)
}

func TestPartitionKey(t *testing.T) {
	assert.Equal(t, []byte("ORD-2026-X"), PartitionKey("ORD-2026-X"))
}
