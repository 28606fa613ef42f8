package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/config"
	apperrors "backoffice/internal/errors"
)

func newTestTxRunner(t *testing.T, maxAttempts int) (*TxRunner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := NewTxRunner(db, config.TxConfig{Timeout: time.Second, MaxRetryAttempts: maxAttempts}, zap.NewNop())
	runner.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return runner, mock
}

func touchStock(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "UPDATE Estoque SET quantidade = quantidade + 1 WHERE fk_cod_prod = ?", 1)
	return err
}

func TestTxRunner_CommitsOnSuccess(t *testing.T) {
	runner, mock := newTestTxRunner(t, 3)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE Estoque").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := runner.Run(context.Background(), touchStock)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	runner, mock := newTestTxRunner(t, 3)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	calls := 0
	err := runner.Run(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_DomainErrorIsNotRetried(t *testing.T) {
	runner, mock := newTestTxRunner(t, 3)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := runner.Run(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		return apperrors.NewInsufficientStockError(1, 10, 2)
	})

	_, ok := apperrors.IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RetriesDeadlock(t *testing.T) {
	runner, mock := newTestTxRunner(t, 3)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE Estoque").WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE Estoque").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := runner.Run(context.Background(), touchStock)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_DeadlockRetriesExhausted(t *testing.T) {
	runner, mock := newTestTxRunner(t, 2)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE Estoque").WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})
		mock.ExpectRollback()
	}

	err := runner.Run(context.Background(), touchStock)

	_, ok := apperrors.IsDeadlockError(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_BeginFails(t *testing.T) {
	runner, mock := newTestTxRunner(t, 1)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := runner.Run(context.Background(), touchStock)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "beginning transaction")
}

func TestIsDuplicateEntry(t *testing.T) {
	assert.True(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicateEntry(errors.New("other")))
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 3306, Name: "backoffice"})

	assert.Contains(t, dsn, "u:p@tcp(db:3306)/backoffice")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
}
