// Package postgres stores restaurants, menus and placed orders in PostgreSQL
// (with PostGIS) through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

func Connect(ctx context.Context, cfg models.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConn > 0 {
		poolConfig.MaxConns = cfg.MaxConn
	}
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE TABLE IF NOT EXISTS restaurants (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        phone TEXT,
        town TEXT,
        slug_name TEXT,
        website_logo_url TEXT,
        location GEOGRAPHY(POINT, 4326),
        cuisines TEXT[],
        rating DOUBLE PRECISION,
        total_ratings DOUBLE PRECISION,
        prep_time DOUBLE PRECISION,
        min_prep_time DOUBLE PRECISION,
        avg_prep_time DOUBLE PRECISION,
        pickup_efficiency DOUBLE PRECISION,
        capacity INTEGER,
        status TEXT NOT NULL DEFAULT 'open',
        opening_hour SMALLINT NOT NULL DEFAULT 0,
        closing_hour SMALLINT NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS menu_items (
        id TEXT PRIMARY KEY,
        restaurant_id TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
        name TEXT NOT NULL,
        description TEXT,
        price DOUBLE PRECISION NOT NULL,
        prep_time DOUBLE PRECISION,
        category TEXT,
        type TEXT,
        popularity DOUBLE PRECISION,
        prep_complexity DOUBLE PRECISION,
        ingredients TEXT[],
        is_discount_eligible BOOLEAN NOT NULL DEFAULT false,
        image_url TEXT,
        options JSONB NOT NULL DEFAULT '[]'
    )`,
	`CREATE INDEX IF NOT EXISTS menu_items_restaurant_idx ON menu_items (restaurant_id)`,
	`CREATE TABLE IF NOT EXISTS orders (
        id TEXT PRIMARY KEY,
        restaurant_id TEXT NOT NULL,
        order_type TEXT NOT NULL,
        status TEXT NOT NULL,
        subtotal NUMERIC(12,2) NOT NULL,
        tax NUMERIC(12,2) NOT NULL,
        delivery_fee NUMERIC(12,2) NOT NULL,
        service_fee NUMERIC(12,2) NOT NULL,
        discount NUMERIC(12,2) NOT NULL,
        total NUMERIC(12,2) NOT NULL,
        customer_info JSONB NOT NULL,
        estimated_delivery_time TEXT,
        placed_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS orders_restaurant_idx ON orders (restaurant_id, placed_at DESC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
        order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
        position INTEGER NOT NULL,
        line_id TEXT NOT NULL,
        menu_item_id TEXT NOT NULL,
        name TEXT NOT NULL,
        unit_price NUMERIC(12,2) NOT NULL,
        quantity INTEGER NOT NULL CHECK (quantity > 0),
        customizations JSONB NOT NULL DEFAULT '[]',
        PRIMARY KEY (order_id, position)
    )`,
	`CREATE TABLE IF NOT EXISTS fact_order (
        event_type TEXT,
        order_id TEXT,
        restaurant_id TEXT,
        order_type TEXT,
        item_count INTEGER,
        line_count INTEGER,
        subtotal DOUBLE PRECISION,
        discount DOUBLE PRECISION,
        total DOUBLE PRECISION,
        total_cents BIGINT,
        payment_method TEXT,
        placed_at TIMESTAMPTZ,
        "timestamp" BIGINT
    )`,
}

// EnsureSchema creates the tables used by the repositories and the postgres
// event output. Every statement is idempotent.
func EnsureSchema(ctx context.Context, db DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
