package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvinsinsua/scalaya-backend/internal/accounts"
)

// AdminStore is the slice of the admin repository the bootstrap
// command needs.
type AdminStore interface {
	Create(ctx context.Context, a *accounts.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*accounts.AdminUser, error)
}

type AdminProvision struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Roles     []string
}

// ProvisionAdmin creates a back-office operator. The first admin has
// to come from outside the admin panel, so cmd/createadmin calls this
// directly. ROLE_ADMIN is always granted, whatever Roles carries.
func ProvisionAdmin(ctx context.Context, store AdminStore, bcryptCost int, p AdminProvision) (*accounts.AdminUser, error) {
	if err := CheckPasswordStrength(p.Password); err != nil {
		return nil, err
	}
	if existing, err := store.FindByEmail(ctx, p.Email); err == nil && existing != nil {
		return nil, ErrEmailExists
	} else if err != nil && !errors.Is(err, accounts.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(p.Password, bcryptCost)
	if err != nil {
		return nil, err
	}

	a := accounts.NewAdminUser()
	a.Email = p.Email
	a.FirstName = p.FirstName
	a.LastName = p.LastName
	a.PasswordHash = hash
	if len(p.Roles) > 0 {
		a.Roles = p.Roles
	}
	if !a.HasRole(accounts.RoleAdmin) {
		a.Roles = append(a.Roles, accounts.RoleAdmin)
	}

	if err := store.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create admin user: %w", err)
	}
	return a, nil
}
