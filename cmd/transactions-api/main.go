package main

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"

	"github.com/matheusmosca/inventory-app/internal/config"
	"github.com/matheusmosca/inventory-app/internal/database"
	"github.com/matheusmosca/inventory-app/internal/httpserver"
	"github.com/matheusmosca/inventory-app/internal/telemetry"
	"github.com/matheusmosca/inventory-app/internal/transactions"
)

func main() {
	cfg := config.Load("transactions-api", "8081")

	// Initialize OpenTelemetry
	shutdown, err := telemetry.Init(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	// Initialize database
	dbPool, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbPool.Close()

	repository := transactions.NewRepository(dbPool)

	usecases, err := transactions.NewUseCase(repository, otel.Tracer(cfg.ServiceName), otel.Meter(cfg.ServiceName))
	if err != nil {
		log.Fatalf("Failed to initialize use cases: %v", err)
	}

	handler := transactions.NewHandler(usecases)

	r := httpserver.NewEngine(cfg, "Transactions.Api up", dbPool)
	handler.Register(r)

	if err := httpserver.Run(cfg, r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
