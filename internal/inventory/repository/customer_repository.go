package repository

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/errors"
	"backoffice/internal/infrastructure/mysql"
)

type MySQLCustomerRepository struct {
	db *sql.DB
}

func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

// Upsert follows the same convergence rule as the supplier upsert, on uq_cliente_nome.
func (r *MySQLCustomerRepository) Upsert(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	query := `INSERT INTO Cliente (nome) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`

	result, err := tx.ExecContext(ctx, query, name)
	if err != nil {
		return 0, fmt.Errorf("upserting customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting customer id: %w", err)
	}
	return id, nil
}

func (r *MySQLCustomerRepository) Rename(ctx context.Context, tx *sql.Tx, id int64, name string) error {
	query := `UPDATE Cliente SET nome = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, name, id)
	if mysql.IsDuplicateEntry(err) {
		return errors.NewConflictError(fmt.Sprintf("customer %q already exists", name))
	}
	if err != nil {
		return fmt.Errorf("renaming customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", id))
	}
	return nil
}
