package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/kelvinsinsua/scalaya-backend/internal/accounts"
	"github.com/kelvinsinsua/scalaya-backend/internal/auth"
	"github.com/kelvinsinsua/scalaya-backend/internal/catalog"
	"github.com/kelvinsinsua/scalaya-backend/internal/config"
	"github.com/kelvinsinsua/scalaya-backend/internal/dispatch"
	"github.com/kelvinsinsua/scalaya-backend/internal/httpx"
	kafkax "github.com/kelvinsinsua/scalaya-backend/internal/kafka"
	"github.com/kelvinsinsua/scalaya-backend/internal/orders"
	"github.com/kelvinsinsua/scalaya-backend/internal/postgres"
	"github.com/kelvinsinsua/scalaya-backend/internal/redisx"
	"github.com/kelvinsinsua/scalaya-backend/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	telemetry.InitLogger(cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	createdProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	createdProd.Start(ctx)
	statusProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	statusProd.Start(ctx)

	jwt := &auth.JWT{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL, Issuer: cfg.ServiceName}
	customerRepo := &accounts.CustomerRepo{DB: db}
	supplierRepo := &accounts.SupplierRepo{DB: db}

	authHandler := &httpx.AuthHandler{
		Customers: &auth.CustomerAuth{Store: customerRepo, BcryptCost: cfg.BcryptCost},
		Suppliers: &auth.SupplierAuth{Store: supplierRepo, BcryptCost: cfg.BcryptCost},
		JWT:       jwt,
		SendResetToken: func(email, token string) {
			// mailer integration point; tokens are logged nowhere
			slog.Info("reset token issued", "email", email)
		},
	}
	ordersHandler := &httpx.OrdersHandler{
		Repo:           &orders.Repo{DB: db},
		Products:       &catalog.Repo{DB: db},
		Producer:       createdProd,
		StatusProducer: statusProd,
		Redis:          rdb,
		Service:        cfg.ServiceName,
	}
	catalogHandler := &httpx.CatalogHandler{Repo: &catalog.Repo{DB: db}}
	dispatchHandler := &httpx.DispatchHandler{Repo: &dispatch.Repo{DB: db}}
	accountsHandler := &httpx.AccountsHandler{
		Customers: customerRepo,
		Suppliers: supplierRepo,
		Admins:    &accounts.AdminRepo{DB: db},
		Addresses: &accounts.AddressRepo{DB: db},
		JWT:       jwt,
	}

	router := httpx.NewRouter()
	router.Route("/api", func(r chi.Router) {
		authHandler.Register(r)
		authHandler.RegisterProtected(r)
		accountsHandler.RegisterPublic(r)
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(httpx.RequireAuth(jwt, auth.RealmAdmin))
		ordersHandler.Register(r)
		catalogHandler.Register(r)
		accountsHandler.Register(r)
		dispatchHandler.Register(r)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	createdProd.Close()
	statusProd.Close()
	cancel()
	createdProd.WaitClosed()
	statusProd.WaitClosed()
}
