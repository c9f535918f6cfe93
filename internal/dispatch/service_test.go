package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinsinsua/scalaya-backend/internal/orders"
)

func TestGroupBySupplier(t *testing.T) {
	p := orders.OrderCreatedPayload{
		OrderNumber: "ORD-2026-ABCDEF1234567",
		Items: []orders.EventItem{
			{ProductID: 1, SupplierID: 10, Quantity: 2},
			{ProductID: 2, SupplierID: 20, Quantity: 1},
			{ProductID: 3, SupplierID: 10, Quantity: 3},
		},
	}

	records := GroupBySupplier(p)
	require.Len(t, records, 2)

	// first-seen supplier order is preserved
	assert.Equal(t, int64(10), records[0].SupplierID)
	assert.Equal(t, 2, records[0].ItemCount)
	assert.Equal(t, int64(20), records[1].SupplierID)
	assert.Equal(t, 1, records[1].ItemCount)

	for _, rec := range records {
		assert.Equal(t, "ORD-2026-ABCDEF1234567", rec.OrderNumber)
		assert.Equal(t, "queued", rec.Status)
	}
}

func TestGroupBySupplierSkipsOrphanLines(t *testing.T) {
	p := orders.OrderCreatedPayload{
		OrderNumber: "ORD-2026-ABCDEF1234567",
		Items: []orders.EventItem{
			{ProductID: 1, SupplierID: 0, Quantity: 2},
		},
	}
	assert.Empty(t, GroupBySupplier(p))
}

func TestGroupBySupplierEmptyOrder(t *testing.T) {
	assert.Empty(t, GroupBySupplier(orders.OrderCreatedPayload{OrderNumber: "ORD-2026-X"}))
}
