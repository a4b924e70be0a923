package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the initial schema migration.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS merchants (
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL,
			email       TEXT NOT NULL UNIQUE,
			api_key     TEXT NOT NULL UNIQUE,
			api_secret  TEXT NOT NULL,
			webhook_url TEXT,
			is_active   BOOLEAN NOT NULL DEFAULT true,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id          TEXT PRIMARY KEY,
			merchant_id UUID NOT NULL REFERENCES merchants(id),
			amount      BIGINT NOT NULL CHECK (amount >= 100),
			currency    VARCHAR(3) NOT NULL DEFAULT 'INR',
			receipt     TEXT,
			notes       JSONB,
			status      TEXT NOT NULL DEFAULT 'created',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_orders_merchant_id ON orders(merchant_id);

		CREATE TABLE IF NOT EXISTS payments (
			id                TEXT PRIMARY KEY,
			order_id          TEXT NOT NULL REFERENCES orders(id),
			merchant_id       UUID NOT NULL REFERENCES merchants(id),
			amount            BIGINT NOT NULL,
			currency          VARCHAR(3) NOT NULL,
			method            TEXT NOT NULL,
			status            TEXT NOT NULL DEFAULT 'processing',
			vpa               TEXT,
			card_network      TEXT,
			card_last4        VARCHAR(4),
			error_code        TEXT,
			error_description TEXT,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_payments_merchant_id ON payments(merchant_id);
		CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);
		CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);
	`
	_, err := pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
