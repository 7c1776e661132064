package main

import (
	"context"
	"log"
	"time"

	"github.com/matheusmosca/inventory-app/internal/client"
	"github.com/matheusmosca/inventory-app/internal/config"
	"github.com/matheusmosca/inventory-app/internal/httpserver"
	"github.com/matheusmosca/inventory-app/internal/telemetry"
	"github.com/matheusmosca/inventory-app/internal/webapp"
)

const apiTimeout = 10 * time.Second

func main() {
	cfg := config.Load("inventory-web", "4200")

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

	productsAPI := client.NewProductsClient(cfg.ProductsAPIURL, apiTimeout)
	transactionsAPI := client.NewTransactionsClient(cfg.TransactionsAPIURL, apiTimeout)

	handler := webapp.NewHandler(productsAPI, transactionsAPI, cfg.ClientTimezone)

	r := httpserver.NewEngine(cfg, "", nil)
	if err := handler.Register(r); err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Printf("🔗 Products API: %s | Transactions API: %s", cfg.ProductsAPIURL, cfg.TransactionsAPIURL)
	if err := httpserver.Run(cfg, r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
