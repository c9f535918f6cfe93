package catalog

import (
	"fmt"
	"time"

	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

type Status string

const (
	StatusAvailable    Status = "available"
	StatusOutOfStock   Status = "out_of_stock"
	StatusDiscontinued Status = "discontinued"
)

var Statuses = []Status{StatusAvailable, StatusOutOfStock, StatusDiscontinued}

// ParseStatus rejects unknown values instead of letting them reach
// the status column.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusOutOfStock, StatusDiscontinued:
		return Status(s), nil
	}
	return "", fmt.Errorf("catalog: unknown product status %q", s)
}

// Product holds the authoritative unit economics and stock for one
// catalog entry. Stock is managed by admin/supplier edits; order
// placement never decrements it here.
type Product struct {
	ID                int64
	SupplierID        int64
	Name              string
	SKU               string
	SupplierReference string
	Description       string
	Category          string
	Images            []string
	CostPrice         money.Amount
	SellingPrice      money.Amount
	Weight            string
	StockLevel        int
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewProduct() *Product {
	now := time.Now()
	return &Product{
		Status:    StatusAvailable,
		Images:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Product) IsAvailable() bool {
	return p.Status == StatusAvailable && p.StockLevel > 0
}

func (p *Product) IsInStock() bool { return p.StockLevel > 0 }

// Margin returns the markup over cost as a percentage. A cost of zero
// (free or not yet priced) yields 0 rather than dividing by zero.
func (p *Product) Margin() float64 {
	cost, _ := p.CostPrice.Decimal().Float64()
	selling, _ := p.SellingPrice.Decimal().Float64()
	if cost <= 0 {
		return 0
	}
	return (selling - cost) / cost * 100
}

func (p *Product) TouchUpdated() { p.UpdatedAt = time.Now() }

func (p *Product) String() string { return p.Name }
