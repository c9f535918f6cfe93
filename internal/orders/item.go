package orders

import (
	"fmt"

	"github.com/kelvinsinsua/scalaya-backend/internal/catalog"
	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

// OrderItem snapshots one order line: a quantity and a unit price,
// with the line total kept algebraically consistent on every mutation.
// A zero unit price is the "not yet set" sentinel; attaching a product
// while the sentinel holds copies the product's selling price.
type OrderItem struct {
	ID        int64
	order     *Order
	product   *catalog.Product
	quantity  int
	unitPrice money.Amount
	lineTotal money.Amount
}

func NewOrderItem() *OrderItem {
	return &OrderItem{quantity: 1}
}

func (i *OrderItem) Quantity() int { return i.quantity }

// SetQuantity stores q and recalculates. Positivity is not enforced
// here; the stock validator and the DTO layer reject bad quantities.
func (i *OrderItem) SetQuantity(q int) {
	i.quantity = q
	i.recalculate()
}

func (i *OrderItem) UnitPrice() money.Amount { return i.unitPrice }

func (i *OrderItem) SetUnitPrice(p money.Amount) {
	i.unitPrice = p
	i.recalculate()
}

func (i *OrderItem) LineTotal() money.Amount { return i.lineTotal }

// SetLineTotal overrides the derived total. Only the repository uses
// it, when hydrating a persisted row.
func (i *OrderItem) SetLineTotal(t money.Amount) { i.lineTotal = t }

func (i *OrderItem) Order() *Order { return i.order }

// SetOrder is the owning-side back-reference; Order.AddItem and
// Order.RemoveItem keep it consistent.
func (i *OrderItem) SetOrder(o *Order) { i.order = o }

func (i *OrderItem) Product() *catalog.Product { return i.product }

// SetProduct attaches the priced reference. While the unit price is
// still the sentinel the product's selling price is claimed as the
// unit price; an explicit SetUnitPrice beforehand wins.
func (i *OrderItem) SetProduct(p *catalog.Product) {
	i.product = p
	if p != nil && i.unitPrice.IsZero() {
		i.unitPrice = p.SellingPrice
	}
	i.recalculate()
}

func (i *OrderItem) ProductName() string {
	if i.product == nil {
		return ""
	}
	return i.product.Name
}

func (i *OrderItem) ProductSKU() string {
	if i.product == nil {
		return ""
	}
	return i.product.SKU
}

// recalculate maintains lineTotal == round(unitPrice * quantity, 2).
// A non-positive quantity zeroes the total rather than leaving a
// stale value behind.
func (i *OrderItem) recalculate() {
	if i.quantity <= 0 {
		i.lineTotal = money.Zero
		return
	}
	if i.unitPrice.IsZero() && i.product != nil {
		i.unitPrice = i.product.SellingPrice
	}
	i.lineTotal = i.unitPrice.MulQty(i.quantity).Round2()
}

func (i *OrderItem) String() string {
	name := i.ProductName()
	if name == "" {
		name = "Unknown Product"
	}
	return fmt.Sprintf("%s (x%d)", name, i.quantity)
}
