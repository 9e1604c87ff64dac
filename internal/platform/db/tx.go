package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hrleave/internal/platform/querier"
)

const defaultTxTimeout = 10 * time.Second

// TxManager runs units of work on a pool. The open pgx.Tx travels in the
// context; nested calls join the outer transaction.
type TxManager struct {
	pool    *pgxpool.Pool
	logger  *zap.Logger
	timeout time.Duration
}

func NewTxManager(pool *pgxpool.Pool, logger *zap.Logger) *TxManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TxManager{pool: pool, logger: logger, timeout: defaultTxTimeout}
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := querier.TxFrom(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.logger.Warn("leave unit of work rollback failed", zap.Error(rbErr))
		}
	}()

	if err := fn(querier.WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
