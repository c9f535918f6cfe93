package accounts

import (
	"strings"
	"time"
)

// Address is a shipping or billing destination. Orders reference one
// as an opaque ID.
type Address struct {
	ID           int64
	FirstName    string
	LastName     string
	Company      string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewAddress() *Address {
	now := time.Now()
	return &Address{CreatedAt: now, UpdatedAt: now}
}

func (a *Address) FullName() string { return a.FirstName + " " + a.LastName }

// OneLine renders the postal form used in order summaries.
func (a *Address) OneLine() string {
	parts := []string{a.AddressLine1}
	if a.AddressLine2 != "" {
		parts = append(parts, a.AddressLine2)
	}
	parts = append(parts, a.City, a.State, a.PostalCode, a.Country)
	return strings.Join(parts, ", ")
}

func (a *Address) TouchUpdated() { a.UpdatedAt = time.Now() }
