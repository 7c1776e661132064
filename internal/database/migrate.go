package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strings"

	// database/sql driver for the migration runner
	_ "github.com/lib/pq"
)

// Migrator aplica os scripts SQL embarcados que ainda não constam em schema_migrations.
type Migrator struct {
	db    *sql.DB
	files fs.FS
}

// OpenMigrator abre uma conexão database/sql (lib/pq) para aplicar o schema.
func OpenMigrator(ctx context.Context, dsn string, files fs.FS) (*Migrator, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Migrator{db: db, files: files}, nil
}

// Close fecha a conexão do migrator.
func (m *Migrator) Close() error {
	return m.db.Close()
}

// Up applies every pending script in lexical order, each inside its own transaction.
// It returns the versions applied by this call.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if _, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ  NOT NULL DEFAULT now()
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	versions, err := Versions(m.files)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, version := range versions {
		done, err := m.isApplied(ctx, version)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		if err := m.apply(ctx, version); err != nil {
			return applied, err
		}
		log.Printf("✅ [MIGRATE] Applied %s", version)
		applied = append(applied, version)
	}
	return applied, nil
}

func (m *Migrator) isApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return exists, nil
}

func (m *Migrator) apply(ctx context.Context, version string) error {
	script, err := fs.ReadFile(m.files, version)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", version, err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("failed to apply migration %s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}
	return tx.Commit()
}

// Versions lists every *.sql file of files sorted lexically; Up skips the applied ones.
func Versions(files fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		versions = append(versions, entry.Name())
	}
	sort.Strings(versions)
	return versions, nil
}
