package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"backoffice/internal/config"
	apperrors "backoffice/internal/errors"
)

// TxFunc is an alias: consumer interfaces spell out the plain func type.
type TxFunc = func(ctx context.Context, tx *sql.Tx) error

// TxRunner runs a unit of work inside one REPEATABLE READ transaction and
// replays the whole unit when MySQL reports a deadlock or lock wait timeout.
type TxRunner struct {
	db          *sql.DB
	logger      *zap.Logger
	timeout     time.Duration
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

func NewTxRunner(db *sql.DB, cfg config.TxConfig, logger *zap.Logger) *TxRunner {
	maxAttempts := cfg.MaxRetryAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TxRunner{
		db:          db,
		logger:      logger,
		timeout:     timeout,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.RandomizationFactor = 0.2
			return b
		},
	}
}

func (r *TxRunner) Run(ctx context.Context, fn TxFunc) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if IsDeadlock(err) {
			r.logger.Warn("deadlock detected", zap.Int("attempt", attempt), zap.Int("maxAttempts", r.maxAttempts), zap.Error(err))
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)
	err := backoff.Retry(operation, policy)
	if err != nil && IsDeadlock(err) {
		return apperrors.NewDeadlockError("max retries exceeded")
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn TxFunc) error {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	// No-op once committed.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
