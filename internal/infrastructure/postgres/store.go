// Package postgres persiste el estado del sandbox en PostgreSQL (SANDBOX_STORE=postgres).
// Expone los mismos métodos que el store en memoria para que el router no distinga backends.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store usuarios, catálogo y comandas sobre un pool pgx.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore construye el store. El esquema debe existir (ver Migrate).
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// withTx ejecuta fn dentro de una transacción y hace Commit o Rollback.
func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
