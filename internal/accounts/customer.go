package accounts

import (
	"fmt"
	"time"
)

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
	CustomerBlocked  CustomerStatus = "blocked"
)

func ParseCustomerStatus(s string) (CustomerStatus, error) {
	switch CustomerStatus(s) {
	case CustomerActive, CustomerInactive, CustomerBlocked:
		return CustomerStatus(s), nil
	}
	return "", fmt.Errorf("accounts: unknown customer status %q", s)
}

// Customer is a buyer account. PasswordHash and the reset-token pair
// hold derived secrets only; plain passwords and plain reset tokens
// never touch storage.
type Customer struct {
	ID                int64
	Email             string
	FirstName         string
	LastName          string
	Phone             string
	BillingAddressID  *int64
	ShippingAddressID *int64
	Status            CustomerStatus
	PasswordHash      string
	ResetTokenHash    *string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewCustomer() *Customer {
	now := time.Now()
	return &Customer{Status: CustomerActive, CreatedAt: now, UpdatedAt: now}
}

func (c *Customer) FullName() string { return c.FirstName + " " + c.LastName }
func (c *Customer) IsActive() bool   { return c.Status == CustomerActive }
func (c *Customer) IsBlocked() bool  { return c.Status == CustomerBlocked }
func (c *Customer) TouchUpdated()    { c.UpdatedAt = time.Now() }
