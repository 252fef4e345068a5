package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pos-system/internal/fulfillment"
)

// Coordinator runs units of work inside a single PostgreSQL transaction.
// It is the only place that issues begin/commit/rollback; fn receives a
// store scoped to the open transaction and never manages its lifecycle.
//
// Correctness precondition: the check-then-deduct sequence relies on
// PostgreSQL row-level write locks on inventory rows, so two orders
// competing for the same ingredient serialize on its row.
type Coordinator struct {
	pool *pgxpool.Pool
}

func NewCoordinator(pool *pgxpool.Pool) *Coordinator {
	return &Coordinator{pool: pool}
}

func (c *Coordinator) InTx(ctx context.Context, fn func(ctx context.Context, s fulfillment.Store) error) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback is a no-op once Commit has succeeded.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &txStore{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
