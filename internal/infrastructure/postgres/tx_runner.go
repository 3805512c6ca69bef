package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ukena18/Haci-sub000/internal/domain/repository"
)

var _ repository.Transactor = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool  *pgxpool.Pool
	newID func() string
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, newID func() string) *TxRunner {
	return &TxRunner{pool: pool, newID: newID}
}

// Run inicia una transacción, ejecuta fn con un StateStore atado a la tx y hace Commit o Rollback.
// Load toma la fila con FOR UPDATE: dos mutaciones del mismo usuario se serializan.
func (r *TxRunner) Run(ctx context.Context, fn func(store repository.StateStore) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	store := &StateRepo{q: tx, newID: r.newID, forUpdate: true}
	if err := fn(store); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
