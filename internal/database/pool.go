// Package database provides the connection provider shared by the inventory stores.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/inventory-app/internal/config"
)

// Connector entrega uma conexão do pool por unidade de trabalho.
// *pgxpool.Pool implementa esta interface.
type Connector interface {
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
}

// NewPool cria o pool de conexões e espera o banco ficar disponível.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	// Wait for database to be ready
	for i := 0; i < attempts; i++ {
		if err := pool.Ping(ctx); err == nil {
			log.Println("✅ Connected to inventory database with connection pool")
			return pool, nil
		}
		log.Printf("⏳ Waiting for database... (%d/%d)", i+1, attempts)

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts", attempts)
}

// WithConn adquire uma conexão, executa fn e a devolve ao pool em qualquer caso.
// Erros do PostgreSQL são classificados com Classify.
func WithConn(ctx context.Context, c Connector, fn func(conn *pgxpool.Conn) error) error {
	conn, err := c.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	return Classify(fn(conn))
}
