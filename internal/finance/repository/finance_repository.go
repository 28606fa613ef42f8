package repository

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/errors"
)

type MySQLFinanceRepository struct {
	db *sql.DB
}

func NewMySQLFinanceRepository(db *sql.DB) *MySQLFinanceRepository {
	return &MySQLFinanceRepository{db: db}
}

func (r *MySQLFinanceRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.FinancialEntry, error) {
	query := `
		SELECT id, descricao, valor, DATE_FORMAT(data, '%Y-%m-%d'), user_id
		FROM Financeiro
		WHERE user_id = ?
		ORDER BY data DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying financial entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.FinancialEntry{}
	for rows.Next() {
		var e domain.FinancialEntry
		if err := rows.Scan(&e.ID, &e.Description, &e.Value, &e.Date, &e.OwnerID); err != nil {
			return nil, fmt.Errorf("scanning financial entry row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating financial entry rows: %w", err)
	}

	return entries, nil
}

func (r *MySQLFinanceRepository) Create(ctx context.Context, e domain.FinancialEntry) (int64, error) {
	query := `INSERT INTO Financeiro (descricao, valor, data, user_id) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, e.Description, e.Value, e.Date, e.OwnerID)
	if err != nil {
		return 0, fmt.Errorf("inserting financial entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// Update overwrites an entry owned by e.OwnerID. Entries of other users are
// reported as not found.
func (r *MySQLFinanceRepository) Update(ctx context.Context, e domain.FinancialEntry) error {
	query := `
		UPDATE Financeiro
		SET descricao = ?, valor = ?, data = ?
		WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, e.Description, e.Value, e.Date, e.ID, e.OwnerID)
	if err != nil {
		return fmt.Errorf("updating financial entry: %w", err)
	}
	return requireAffected(result, e.ID)
}

func (r *MySQLFinanceRepository) Delete(ctx context.Context, id, ownerID int64) error {
	query := `DELETE FROM Financeiro WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting financial entry: %w", err)
	}
	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("financial entry with id %d not found", id))
	}
	return nil
}
