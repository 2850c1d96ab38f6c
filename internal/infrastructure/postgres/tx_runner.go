package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (read committed).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los bloqueos FOR UPDATE tomados dentro de fn se liberan al terminar.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Set) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositorySet(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// NewRepositorySet arma todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepositorySet(q Querier) repository.Set {
	return repository.Set{
		Projects:  NewProjectRepository(q),
		Materials: NewMaterialRepository(q),
		Movements: NewMovementRepository(q),
		Stock:     NewStockRepository(q),
		Users:     NewUserRepository(q),
	}
}
