package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kelvinsinsua/scalaya-backend/internal/config"
	"github.com/kelvinsinsua/scalaya-backend/internal/dispatch"
	kafkax "github.com/kelvinsinsua/scalaya-backend/internal/kafka"
	"github.com/kelvinsinsua/scalaya-backend/internal/orders"
	"github.com/kelvinsinsua/scalaya-backend/internal/postgres"
	"github.com/kelvinsinsua/scalaya-backend/internal/redisx"
	"github.com/kelvinsinsua/scalaya-backend/internal/telemetry"
)

func workers() int {
	if v := os.Getenv("DISPATCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 4
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	telemetry.InitLogger(cfg.ServiceName + "-dispatch")

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

	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderDispatched, 1024)
	prod.Start(ctx)

	svc := &dispatch.Service{
		Repo:        &dispatch.Repo{DB: db},
		Redis:       rdb,
		Producer:    prod,
		ServiceName: cfg.ServiceName + "-dispatch",
	}

	consumer := kafkax.NewConsumer(cfg.KafkaBrokers, "dispatch", orders.TopicOrderCreated, workers())

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		slog.Info("shutting down")
		cancel()
	}()

	if err := consumer.Start(ctx, svc.HandleOrderCreated); err != nil {
		slog.Error("consumer stopped", "err", err)
		os.Exit(1)
	}
	// ctx is cancelled here; the producer loop flushes and exits
	prod.WaitClosed()
}
