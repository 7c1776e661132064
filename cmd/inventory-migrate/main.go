package main

import (
	"context"
	"log"
	"time"

	"github.com/matheusmosca/inventory-app/internal/config"
	"github.com/matheusmosca/inventory-app/internal/database"
	"github.com/matheusmosca/inventory-app/internal/database/migrations"
)

func main() {
	cfg := config.Load("inventory-migrate", "")
	ctx := context.Background()

	var (
		migrator *database.Migrator
		err      error
	)

	// Wait for database to be ready
	for i := 0; i < max(1, cfg.Database.ConnectAttempts); i++ {
		migrator, err = database.OpenMigrator(ctx, cfg.Database.DSN(), migrations.FS)
		if err == nil {
			break
		}
		log.Printf("⏳ Waiting for database... (%d/%d)", i+1, cfg.Database.ConnectAttempts)
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer migrator.Close()

	applied, err := migrator.Up(ctx)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	if len(applied) == 0 {
		log.Println("✅ Schema is up to date")
		return
	}
	for _, version := range applied {
		log.Printf("✅ Applied %s", version)
	}
}
