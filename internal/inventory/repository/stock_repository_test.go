package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/errors"
	"backoffice/internal/testutil"
)

func beginMockTx(t *testing.T) (*sql.DB, *sql.Tx, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return db, tx, mock
}

// Unit Tests

func TestStockRepository_AddStock(t *testing.T) {
	db, tx, mock := beginMockTx(t)
	repo := NewMySQLStockRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE quantidade = quantidade + VALUES(quantidade)")).
		WithArgs(int64(3), 10, "2024-03-01").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AddStock(context.Background(), tx, 3, 10, "2024-03-01")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockRepository_SetQuantity(t *testing.T) {
	db, tx, mock := beginMockTx(t)
	repo := NewMySQLStockRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE quantidade = VALUES(quantidade)")).
		WithArgs(int64(3), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetQuantity(context.Background(), tx, 3, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockRepository_LockQuantity(t *testing.T) {
	db, tx, mock := beginMockTx(t)
	repo := NewMySQLStockRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT quantidade FROM Estoque WHERE fk_cod_prod = ? FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"quantidade"}).AddRow(12))

	qty, err := repo.LockQuantity(context.Background(), tx, 3)
	require.NoError(t, err)
	assert.Equal(t, 12, qty)
}

func TestStockRepository_LockQuantity_NoRow(t *testing.T) {
	db, tx, mock := beginMockTx(t)
	repo := NewMySQLStockRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.LockQuantity(context.Background(), tx, 3)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestStockRepository_RemoveStock(t *testing.T) {
	db, tx, mock := beginMockTx(t)
	repo := NewMySQLStockRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE fk_cod_prod = ? AND quantidade >= ?")).
		WithArgs(4, int64(3), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveStock(context.Background(), tx, 3, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockRepository_RemoveStock_Insufficient(t *testing.T) {
	db, tx, mock := beginMockTx(t)
	repo := NewMySQLStockRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE fk_cod_prod = ? AND quantidade >= ?")).
		WithArgs(9, int64(3), 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"quantidade"}).AddRow(2))

	err := repo.RemoveStock(context.Background(), tx, 3, 9)

	ise, ok := errors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 9, ise.Requested)
	assert.Equal(t, 2, ise.Available)
}

func TestStockRepository_RemoveStock_NoRow(t *testing.T) {
	db, tx, mock := beginMockTx(t)
	repo := NewMySQLStockRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Estoque")).
		WithArgs(1, int64(3), 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	err := repo.RemoveStock(context.Background(), tx, 3, 1)

	ise, ok := errors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 0, ise.Available)
}

func TestStockRepository_Reconciliation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMySQLStockRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN Estoque e ON e.fk_cod_prod = p.COD")).
		WithArgs("finalizado", int64(3), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"COD", "nome", "recorded", "purchased", "sold"}).
			AddRow(3, "Caneca", 8, 10, 3))

	rec, err := repo.Reconciliation(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, "Caneca", rec.ProductName)
	assert.Equal(t, 7, rec.Expected())
	assert.Equal(t, 1, rec.Drift())
}

func TestStockRepository_Reconciliation_NotOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMySQLStockRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM Produto p")).
		WithArgs("finalizado", int64(3), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Reconciliation(context.Background(), 3, 2)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

// Integration Tests

func TestStockRepository_AddAndRemove_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	ownerID := testutil.SeedUser(t, db, "stock@acme.com", "Acme")
	result, err := db.Exec(`INSERT INTO Produto (nome, descricao, user_id) VALUES ('Caneca', '', ?)`, ownerID)
	require.NoError(t, err)
	productID, err := result.LastInsertId()
	require.NoError(t, err)

	repo := NewMySQLStockRepository(db)
	ctx := context.Background()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.AddStock(ctx, tx, productID, 5, "2024-03-01"))
	require.NoError(t, repo.AddStock(ctx, tx, productID, 3, "2024-03-02"))
	require.NoError(t, repo.RemoveStock(ctx, tx, productID, 6))

	err = repo.RemoveStock(ctx, tx, productID, 3)
	_, ok := errors.IsInsufficientStockError(err)
	assert.True(t, ok)

	qty, err := repo.LockQuantity(ctx, tx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
	require.NoError(t, tx.Commit())
}
