package services

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresProvider checks the record store through a dedicated
// database/sql handle, independent of the repository pool
type PostgresProvider struct {
	BaseProvider
	db *sql.DB
}

// NewPostgresProvider opens a single-connection handle on dsn
func NewPostgresProvider(dsn string) (*PostgresProvider, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &PostgresProvider{
		BaseProvider: BaseProvider{serviceType: "postgres"},
		db:           db,
	}, nil
}

// HealthCheck verifies connectivity and that the schema has been migrated
func (p *PostgresProvider) HealthCheck(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return err
	}

	var applied int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		return fmt.Errorf("schema not migrated: %w", err)
	}
	if applied == 0 {
		return fmt.Errorf("schema not migrated: no migrations applied")
	}

	return nil
}

// Close closes the handle
func (p *PostgresProvider) Close() error {
	return p.db.Close()
}
