package main

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"

	"github.com/matheusmosca/inventory-app/internal/config"
	"github.com/matheusmosca/inventory-app/internal/database"
	"github.com/matheusmosca/inventory-app/internal/httpserver"
	"github.com/matheusmosca/inventory-app/internal/products"
	"github.com/matheusmosca/inventory-app/internal/telemetry"
)

func main() {
	cfg := config.Load("products-api", "8080")

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

	repository := products.NewRepository(dbPool)

	usecases, err := products.NewUseCase(repository, otel.Tracer(cfg.ServiceName), otel.Meter(cfg.ServiceName))
	if err != nil {
		log.Fatalf("Failed to initialize use cases: %v", err)
	}

	handler := products.NewHandler(usecases)

	r := httpserver.NewEngine(cfg, "Products.Api up", dbPool)
	handler.Register(r)

	if err := httpserver.Run(cfg, r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
