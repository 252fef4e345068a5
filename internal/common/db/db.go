package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Conn struct{ *pgxpool.Pool }

func Connect(ctx context.Context, connString string) (*Conn, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	cfg.MaxConns = 25
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Conn{Pool: pool}, nil
}

func (c *Conn) Close() {
	if c != nil && c.Pool != nil {
		c.Pool.Close()
	}
}

// Migrate creates the point-of-sale schema. Order rows are keyed by an
// explicitly allocated sequence value rather than a serial column: the
// bulk line insert needs the order id before the insert runs.
func (c *Conn) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE SEQUENCE IF NOT EXISTS pos_order_seq`,

		`CREATE TABLE IF NOT EXISTS menu_items (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS inventory (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			supply NUMERIC(14,3) NOT NULL DEFAULT 0,
			unit TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS menu_item_ingredients (
			menu_item_id BIGINT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
			inventory_item_id BIGINT NOT NULL REFERENCES inventory(id),
			quantity_per_unit NUMERIC(14,3) NOT NULL,
			PRIMARY KEY (menu_item_id, inventory_item_id)
		)`,

		`CREATE TABLE IF NOT EXISTS customers (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			points BIGINT NOT NULL DEFAULT 0,
			total_spent NUMERIC(14,2) NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT NOT NULL,
			customer_id BIGINT NOT NULL DEFAULT 0,
			cashier_id BIGINT NOT NULL DEFAULT 0,
			payment_method TEXT NOT NULL,
			menu_item_id BIGINT NOT NULL,
			item_name TEXT NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
			line_total NUMERIC(12,2) NOT NULL CHECK (line_total >= 0),
			customization JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_id ON orders(id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
	}

	for _, m := range migrations {
		if _, err := c.Exec(ctx, m); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}
	return nil
}
