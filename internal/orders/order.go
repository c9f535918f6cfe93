package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

// Order aggregates line items and owns the monetary roll-up fields.
// CalculateTotals is explicit: mutating the item collection does not
// recompute anything by itself, the caller recalculates (or lets
// ValidateTotals flag the mismatch before commit).
type Order struct {
	ID          int64
	CustomerID  int64
	AddressID   int64
	orderNumber string
	subtotal    money.Amount
	taxAmount   money.Amount
	shipping    money.Amount
	total       money.Amount
	status      Status
	items       []*OrderItem
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewOrder() *Order {
	now := time.Now()
	return &Order{
		orderNumber: generateOrderNumber(),
		status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// generateOrderNumber yields ORD-<year>-<uppercase token>. Uniqueness
// is backed by the unique index on order_number, not by this routine.
func generateOrderNumber() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:13])
	return fmt.Sprintf("ORD-%d-%s", time.Now().Year(), token)
}

func (o *Order) OrderNumber() string         { return o.orderNumber }
func (o *Order) SetOrderNumber(n string)     { o.orderNumber = n }
func (o *Order) Subtotal() money.Amount      { return o.subtotal }
func (o *Order) SetSubtotal(a money.Amount)  { o.subtotal = a }
func (o *Order) TaxAmount() money.Amount     { return o.taxAmount }
func (o *Order) SetTaxAmount(a money.Amount) { o.taxAmount = a }
func (o *Order) ShippingAmount() money.Amount { return o.shipping }
func (o *Order) SetShippingAmount(a money.Amount) { o.shipping = a }
func (o *Order) TotalAmount() money.Amount     { return o.total }
func (o *Order) SetTotalAmount(a money.Amount) { o.total = a }

func (o *Order) Status() Status { return o.status }

// SetStatus records the new state and stamps the shipped/delivered
// timestamps on first entry. Re-entering a stamped state leaves the
// timestamp alone. Any jump is accepted here; see validNext.
func (o *Order) SetStatus(s Status) {
	o.status = s

	if s == StatusShipped && o.ShippedAt == nil {
		now := time.Now()
		o.ShippedAt = &now
	}
	if s == StatusDelivered && o.DeliveredAt == nil {
		now := time.Now()
		o.DeliveredAt = &now
	}
}

func (o *Order) Items() []*OrderItem { return o.items }

// AddItem appends the item and sets its back-reference. Adding the
// same item twice is a no-op.
func (o *Order) AddItem(item *OrderItem) {
	for _, existing := range o.items {
		if existing == item {
			return
		}
	}
	o.items = append(o.items, item)
	item.SetOrder(o)
}

// RemoveItem drops the item and clears its back-reference if it still
// points here. Unknown items are ignored.
func (o *Order) RemoveItem(item *OrderItem) {
	for idx, existing := range o.items {
		if existing == item {
			o.items = append(o.items[:idx], o.items[idx+1:]...)
			if item.Order() == o {
				item.SetOrder(nil)
			}
			return
		}
	}
}

// CalculateTotals recomputes subtotal from the current line totals and
// total as subtotal + tax + shipping.
func (o *Order) CalculateTotals() {
	subtotal := money.Zero
	for _, item := range o.items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	o.subtotal = subtotal.Round2()
	o.total = o.subtotal.Add(o.taxAmount).Add(o.shipping).Round2()
}

func (o *Order) ItemCount() int { return len(o.items) }

func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.items {
		total += item.Quantity()
	}
	return total
}

func (o *Order) IsPending() bool    { return o.status == StatusPending }
func (o *Order) IsProcessing() bool { return o.status == StatusProcessing }
func (o *Order) IsShipped() bool    { return o.status == StatusShipped }
func (o *Order) IsDelivered() bool  { return o.status == StatusDelivered }
func (o *Order) IsCancelled() bool  { return o.status == StatusCancelled }

func (o *Order) CanBeCancelled() bool {
	return o.status == StatusPending || o.status == StatusProcessing
}

// TouchUpdated refreshes UpdatedAt. The repository calls it right
// before every update, replacing the old persistence-layer hook.
func (o *Order) TouchUpdated() { o.UpdatedAt = time.Now() }

func (o *Order) String() string { return o.orderNumber }
