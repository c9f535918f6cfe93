package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/kelvinsinsua/scalaya-backend/internal/accounts"
	"github.com/kelvinsinsua/scalaya-backend/internal/auth"
	"github.com/kelvinsinsua/scalaya-backend/internal/config"
	"github.com/kelvinsinsua/scalaya-backend/internal/postgres"
	"github.com/kelvinsinsua/scalaya-backend/internal/telemetry"
)

// createadmin provisions a back-office operator account. A fresh
// deployment has no admins, so this runs once before the API is of
// any use.
func main() {
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	super := flag.Bool("super", false, "also grant ROLE_SUPER_ADMIN")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	telemetry.InitLogger(cfg.ServiceName + "-createadmin")

	ctx := context.Background()
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	roles := []string{accounts.RoleAdmin}
	if *super {
		roles = append(roles, accounts.RoleSuperAdmin)
	}

	admin, err := auth.ProvisionAdmin(ctx, &accounts.AdminRepo{DB: db}, cfg.BcryptCost, auth.AdminProvision{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
		Roles:     roles,
	})
	if err != nil {
		slog.Error("create admin", "err", err)
		os.Exit(1)
	}
	fmt.Printf("created admin %s (id %d, roles %v)\n", admin.Email, admin.ID, admin.Roles)
}
