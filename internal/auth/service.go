package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvinsinsua/scalaya-backend/internal/accounts"
)

var (
	ErrEmailExists        = errors.New("an account with this email address already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("reset token is invalid or expired")
)

// CustomerStore is the slice of the customer repository the auth
// flows need.
type CustomerStore interface {
	Create(ctx context.Context, c *accounts.Customer) error
	Update(ctx context.Context, c *accounts.Customer) error
	FindByID(ctx context.Context, id int64) (*accounts.Customer, error)
	FindByEmail(ctx context.Context, email string) (*accounts.Customer, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*accounts.Customer, error)
}

type SupplierStore interface {
	Create(ctx context.Context, s *accounts.Supplier) error
	Update(ctx context.Context, s *accounts.Supplier) error
	FindByEmail(ctx context.Context, email string) (*accounts.Supplier, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*accounts.Supplier, error)
}

type CustomerRegistration struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Password  string
}

// CustomerAuth implements registration, login and the password
// recovery lifecycle for buyer accounts.
type CustomerAuth struct {
	Store      CustomerStore
	BcryptCost int
}

func (a *CustomerAuth) Register(ctx context.Context, reg CustomerRegistration) (*accounts.Customer, error) {
	if err := CheckPasswordStrength(reg.Password); err != nil {
		return nil, err
	}
	if existing, err := a.Store.FindByEmail(ctx, reg.Email); err == nil && existing != nil {
		return nil, ErrEmailExists
	} else if err != nil && !errors.Is(err, accounts.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(reg.Password, a.BcryptCost)
	if err != nil {
		return nil, err
	}

	c := accounts.NewCustomer()
	c.Email = reg.Email
	c.FirstName = reg.FirstName
	c.LastName = reg.LastName
	c.Phone = reg.Phone
	c.PasswordHash = hash

	if err := a.Store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

// Authenticate returns the customer on success. Inactive and blocked
// accounts fail the same way as a wrong password.
func (a *CustomerAuth) Authenticate(ctx context.Context, email, password string) (*accounts.Customer, error) {
	c, err := a.Store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !c.IsActive() || !VerifyPassword(c.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return c, nil
}

// StartPasswordReset stores the token hash and expiry and returns the
// plain token for the caller's mailer. Unknown emails return
// ErrNotFound; the HTTP layer answers them identically to known ones
// so the endpoint cannot be used to probe for accounts.
func (a *CustomerAuth) StartPasswordReset(ctx context.Context, email string) (string, error) {
	c, err := a.Store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if c.IsBlocked() {
		// blocked accounts get the same answer as unknown addresses
		return "", accounts.ErrNotFound
	}

	token, err := NewResetToken()
	if err != nil {
		return "", err
	}
	hash := HashToken(token)
	expiry := TokenExpiry()
	c.ResetTokenHash = &hash
	c.ResetTokenExpires = &expiry

	if err := a.Store.Update(ctx, c); err != nil {
		return "", err
	}
	return token, nil
}

func (a *CustomerAuth) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := CheckPasswordStrength(newPassword); err != nil {
		return err
	}
	c, err := a.Store.FindByResetToken(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return ErrTokenExpired
		}
		return err
	}
	if c.ResetTokenExpires != nil && TokenExpired(*c.ResetTokenExpires) {
		return ErrTokenExpired
	}

	hash, err := HashPassword(newPassword, a.BcryptCost)
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	c.ResetTokenHash = nil
	c.ResetTokenExpires = nil
	return a.Store.Update(ctx, c)
}

func (a *CustomerAuth) ChangePassword(ctx context.Context, c *accounts.Customer, current, next string) error {
	if !VerifyPassword(c.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if err := CheckPasswordStrength(next); err != nil {
		return err
	}
	hash, err := HashPassword(next, a.BcryptCost)
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	return a.Store.Update(ctx, c)
}

type SupplierRegistration struct {
	CompanyName   string
	ContactEmail  string
	ContactPerson string
	Phone         string
	Password      string
}

// SupplierAuth mirrors CustomerAuth for supplier accounts.
type SupplierAuth struct {
	Store      SupplierStore
	BcryptCost int
}

func (a *SupplierAuth) Register(ctx context.Context, reg SupplierRegistration) (*accounts.Supplier, error) {
	if err := CheckPasswordStrength(reg.Password); err != nil {
		return nil, err
	}
	if existing, err := a.Store.FindByEmail(ctx, reg.ContactEmail); err == nil && existing != nil {
		return nil, ErrEmailExists
	} else if err != nil && !errors.Is(err, accounts.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(reg.Password, a.BcryptCost)
	if err != nil {
		return nil, err
	}

	s := accounts.NewSupplier()
	s.CompanyName = reg.CompanyName
	s.ContactEmail = reg.ContactEmail
	s.ContactPerson = reg.ContactPerson
	s.Phone = reg.Phone
	s.PasswordHash = hash

	if err := a.Store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return s, nil
}

func (a *SupplierAuth) Authenticate(ctx context.Context, email, password string) (*accounts.Supplier, error) {
	s, err := a.Store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.IsActive() || !VerifyPassword(s.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s, nil
}

func (a *SupplierAuth) StartPasswordReset(ctx context.Context, email string) (string, error) {
	s, err := a.Store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := NewResetToken()
	if err != nil {
		return "", err
	}
	hash := HashToken(token)
	expiry := TokenExpiry()
	s.ResetTokenHash = &hash
	s.ResetTokenExpires = &expiry

	if err := a.Store.Update(ctx, s); err != nil {
		return "", err
	}
	return token, nil
}

func (a *SupplierAuth) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := CheckPasswordStrength(newPassword); err != nil {
		return err
	}
	s, err := a.Store.FindByResetToken(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return ErrTokenExpired
		}
		return err
	}
	if s.ResetTokenExpires != nil && TokenExpired(*s.ResetTokenExpires) {
		return ErrTokenExpired
	}

	hash, err := HashPassword(newPassword, a.BcryptCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	s.ResetTokenHash = nil
	s.ResetTokenExpires = nil
	return a.Store.Update(ctx, s)
}
