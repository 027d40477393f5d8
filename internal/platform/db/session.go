package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx used by batch runs. Both *pgxpool.Pool and
// pgx.Tx satisfy it, which is how report-only runs swap in a transaction
// that is never committed.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Session owns the database handle for the duration of one run. Live runs
// execute directly on the pool, so each statement commits on its own.
// Report-only runs execute on a transaction that Close always rolls back,
// leaving nothing persisted.
type Session struct {
	q  Querier
	tx pgx.Tx
}

// OpenSession acquires a run session. When reportOnly is true all work is
// staged inside a transaction discarded at Close.
func OpenSession(ctx context.Context, pool *pgxpool.Pool, reportOnly bool) (*Session, error) {
	if !reportOnly {
		return &Session{q: pool}, nil
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("platform/db: begin report-only tx: %w", err)
	}
	return &Session{q: tx, tx: tx}, nil
}

// Query runs a select on the session handle.
func (s *Session) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.q.Query(ctx, sql, args...)
}

// SendBatch submits a batch on the session handle.
func (s *Session) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return s.q.SendBatch(ctx, b)
}

// ReportOnly reports whether the session stages work in a discarded transaction.
func (s *Session) ReportOnly() bool {
	return s.tx != nil
}

// Close releases the session. Report-only transactions are rolled back,
// never committed.
func (s *Session) Close(ctx context.Context) error {
	if s == nil || s.tx == nil {
		return nil
	}
	if err := s.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("platform/db: rollback report-only tx: %w", err)
	}
	return nil
}
