package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderDispatched    = "OrderDispatched"
)

// Envelope wraps every event on the order topics.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order number
	Payload       json.RawMessage `json:"payload"`
}

// EventItem carries one order line in an event payload. Amounts are
// the 2dp string form used everywhere on the wire.
type EventItem struct {
	ProductID  int64  `json:"product_id"`
	SKU        string `json:"sku"`
	SupplierID int64  `json:"supplier_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	LineTotal  string `json:"line_total"`
}

type OrderCreatedPayload struct {
	OrderNumber string      `json:"order_number"`
	CustomerID  int64       `json:"customer_id"`
	Items       []EventItem `json:"items"`
	Subtotal    string      `json:"subtotal"`
	TotalAmount string      `json:"total_amount"`
}

type OrderStatusChangedPayload struct {
	OrderNumber string `json:"order_number"`
	From        string `json:"from"`
	To          string `json:"to"`
}

// OrderDispatchedPayload is published by the dispatch worker once the
// supplier-facing rows for an order are recorded.
type OrderDispatchedPayload struct {
	OrderNumber string  `json:"order_number"`
	SupplierIDs []int64 `json:"supplier_ids"`
}

// NewOrderCreatedPayload flattens an order aggregate for the wire.
func NewOrderCreatedPayload(o *Order) OrderCreatedPayload {
	items := make([]EventItem, 0, o.ItemCount())
	for _, item := range o.Items() {
		ev := EventItem{
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
			LineTotal: item.LineTotal().String(),
		}
		if p := item.Product(); p != nil {
			ev.ProductID = p.ID
			ev.SKU = p.SKU
			ev.SupplierID = p.SupplierID
		}
		items = append(items, ev)
	}
	return OrderCreatedPayload{
		OrderNumber: o.OrderNumber(),
		CustomerID:  o.CustomerID,
		Items:       items,
		Subtotal:    o.Subtotal().String(),
		TotalAmount: o.TotalAmount().String(),
	}
}
