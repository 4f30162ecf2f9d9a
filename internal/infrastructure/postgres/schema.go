package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema tablas del sandbox. Idempotente: se aplica en cada arranque.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	price NUMERIC(12,2) NOT NULL CHECK (price > 0)
);

CREATE TABLE IF NOT EXISTS comandas (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL REFERENCES users(id),
	name        TEXT NOT NULL,
	service_fee INT NOT NULL DEFAULT 0 CHECK (service_fee IN (0, 5, 10)),
	closed      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS comandas_owner_idx ON comandas (owner_id, created_at);

CREATE TABLE IF NOT EXISTS comanda_lines (
	position   BIGSERIAL,
	comanda_id TEXT NOT NULL REFERENCES comandas(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	price      NUMERIC(12,2) NOT NULL,
	quantity   INT NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (comanda_id, product_id)
);
`

// Migrate crea las tablas que falten.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrar esquema: %w", err)
	}
	return nil
}
