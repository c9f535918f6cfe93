package orders

import (
	"fmt"
	"strconv"

	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

// Violation is one field-scoped consistency failure. Checks never
// short-circuit: a caller gets every problem at once instead of
// fixing them one round-trip at a time.
type Violation struct {
	Path    string            `json:"path"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Params  map[string]string `json:"params,omitempty"`
}

type Violations []Violation

// On returns the violations recorded against one field path.
func (vs Violations) On(path string) Violations {
	var out Violations
	for _, v := range vs {
		if v.Path == path {
			out = append(out, v)
		}
	}
	return out
}

func (vs Violations) Empty() bool { return len(vs) == 0 }

// MinimumOrderTotal is the smallest accepted non-zero order total.
// Zero-total orders (fully discounted) are exempt.
var MinimumOrderTotal = money.MustParse("1.00")

// ValidateTotals is the cross-field consistency check run before an
// order is persisted. It recomputes the expected subtotal from the
// current line totals instead of trusting the stored one.
func ValidateTotals(o *Order) Violations {
	var out Violations

	expectedSubtotal := money.Zero
	for _, item := range o.Items() {
		expectedSubtotal = expectedSubtotal.Add(item.LineTotal())
	}

	if !money.WithinTolerance(expectedSubtotal, o.Subtotal(), money.Tolerance) {
		out = append(out, Violation{
			Path:    "subtotal",
			Code:    "order.subtotal.mismatch",
			Message: fmt.Sprintf("subtotal %s does not match item total %s", o.Subtotal(), expectedSubtotal),
			Params: map[string]string{
				"expected": expectedSubtotal.String(),
				"actual":   o.Subtotal().String(),
			},
		})
	}

	expectedTotal := o.Subtotal().Add(o.TaxAmount()).Add(o.ShippingAmount())
	if !money.WithinTolerance(expectedTotal, o.TotalAmount(), money.Tolerance) {
		out = append(out, Violation{
			Path:    "totalAmount",
			Code:    "order.total_amount.mismatch",
			Message: fmt.Sprintf("total %s does not match subtotal + tax + shipping = %s", o.TotalAmount(), expectedTotal),
			Params: map[string]string{
				"expected": expectedTotal.String(),
				"actual":   o.TotalAmount().String(),
			},
		})
	}

	if o.ItemCount() == 0 {
		out = append(out, Violation{
			Path:    "orderItems",
			Code:    "order.order_items.empty",
			Message: "an order must contain at least one item",
		})
	}

	if o.TotalAmount().IsPositive() && o.TotalAmount().LessThan(MinimumOrderTotal) {
		out = append(out, Violation{
			Path:    "totalAmount",
			Code:    "order.total_amount.minimum",
			Message: fmt.Sprintf("order total %s is below the %s minimum", o.TotalAmount(), MinimumOrderTotal),
			Params:  map[string]string{"minimum": MinimumOrderTotal.String()},
		})
	}

	return out
}

// ValidateStock checks one line item against its product's stock and
// availability. A nil product is not this check's problem: the DTO
// layer flags missing products.
func ValidateStock(item *OrderItem) Violations {
	product := item.Product()
	if product == nil {
		return nil
	}

	var out Violations

	if product.StockLevel < item.Quantity() {
		out = append(out, Violation{
			Path:    "quantity",
			Code:    "order_item.insufficient_stock",
			Message: fmt.Sprintf("requested %d of %q but only %d in stock", item.Quantity(), product.Name, product.StockLevel),
			Params: map[string]string{
				"requested": strconv.Itoa(item.Quantity()),
				"available": strconv.Itoa(product.StockLevel),
				"product":   product.Name,
			},
		})
	}

	if !product.IsAvailable() {
		out = append(out, Violation{
			Path:    "product",
			Code:    "order_item.product_not_available",
			Message: fmt.Sprintf("product %q is not available (status %s)", product.Name, product.Status),
			Params: map[string]string{
				"product": product.Name,
				"status":  string(product.Status),
			},
		})
	}

	return out
}

// ValidateOrder is the pre-persist entry point: totals consistency
// plus per-item stock checks, item paths prefixed with their index.
func ValidateOrder(o *Order) Violations {
	out := ValidateTotals(o)
	for idx, item := range o.Items() {
		for _, v := range ValidateStock(item) {
			v.Path = fmt.Sprintf("orderItems[%d].%s", idx, v.Path)
			out = append(out, v)
		}
	}
	return out
}
