package accounts

import "time"

const (
	RoleAdmin      = "ROLE_ADMIN"
	RoleSuperAdmin = "ROLE_SUPER_ADMIN"
)

// AdminUser is a back-office operator.
type AdminUser struct {
	ID           int64
	Email        string
	Roles        []string
	PasswordHash string
	FirstName    string
	LastName     string
	Status       string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewAdminUser() *AdminUser {
	now := time.Now()
	return &AdminUser{Status: "active", Roles: []string{RoleAdmin}, CreatedAt: now, UpdatedAt: now}
}

func (a *AdminUser) FullName() string { return a.FirstName + " " + a.LastName }
func (a *AdminUser) IsActive() bool   { return a.Status == "active" }

func (a *AdminUser) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a *AdminUser) UpdateLastLogin() {
	now := time.Now()
	a.LastLoginAt = &now
}

func (a *AdminUser) TouchUpdated() { a.UpdatedAt = time.Now() }
