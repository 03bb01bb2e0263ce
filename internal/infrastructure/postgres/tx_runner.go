package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxRunner construye el runner con el pool. timeout acota cada transacción (bloqueos incluidos).
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, timeout: timeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los errores de dominio salen intactos; el resto (begin, query, commit, timeout) como *domain.PersistenceError.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.AsPersistence("begin", fmt.Errorf("begin transaction: %w", err))
	}
	// Rollback con contexto propio: si ctx venció, igual hay que liberar la conexión.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(ctx, TxRepositories(tx)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !domain.IsBusinessError(err) {
			return domain.AsPersistence("tx", ctxErr)
		}
		return domain.AsPersistence("tx", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.AsPersistence("commit", fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// TxRepositories repositorios atados a q (pool o tx).
func TxRepositories(q Querier) repository.TxRepositories {
	return repository.TxRepositories{
		Products:  NewProductRepository(q),
		Movements: NewInventoryMovementRepository(q),
		Cashbook:  NewCashbookRepository(q),
		Orders:    NewOrderRepository(q),
		Shipments: NewShipmentRepository(q),
	}
}
