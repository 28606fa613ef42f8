package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type MySQLSupplierRepository struct {
	db *sql.DB
}

func NewMySQLSupplierRepository(db *sql.DB) *MySQLSupplierRepository {
	return &MySQLSupplierRepository{db: db}
}

// Upsert returns the id of the supplier named name, inserting it when absent.
// LAST_INSERT_ID(id) makes an existing row report its own id, so concurrent
// callers converge on the row guarded by uq_fornecedor_nome.
func (r *MySQLSupplierRepository) Upsert(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	query := `INSERT INTO Fornecedor (nome) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`

	result, err := tx.ExecContext(ctx, query, name)
	if err != nil {
		return 0, fmt.Errorf("upserting supplier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting supplier id: %w", err)
	}
	return id, nil
}
