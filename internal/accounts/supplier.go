package accounts

import (
	"fmt"
	"time"
)

type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "active"
	SupplierInactive SupplierStatus = "inactive"
)

func ParseSupplierStatus(s string) (SupplierStatus, error) {
	switch SupplierStatus(s) {
	case SupplierActive, SupplierInactive:
		return SupplierStatus(s), nil
	}
	return "", fmt.Errorf("accounts: unknown supplier status %q", s)
}

// Supplier is a dropshipping source with a self-service login.
type Supplier struct {
	ID                int64
	CompanyName       string
	ContactEmail      string
	ContactPerson     string
	Phone             string
	Address           string
	Notes             string
	Status            SupplierStatus
	PasswordHash      string
	ResetTokenHash    *string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewSupplier() *Supplier {
	now := time.Now()
	return &Supplier{Status: SupplierActive, CreatedAt: now, UpdatedAt: now}
}

func (s *Supplier) IsActive() bool { return s.Status == SupplierActive }
func (s *Supplier) TouchUpdated()  { s.UpdatedAt = time.Now() }
