package repository

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/errors"
)

type MySQLPurchaseRepository struct {
	db *sql.DB
}

func NewMySQLPurchaseRepository(db *sql.DB) *MySQLPurchaseRepository {
	return &MySQLPurchaseRepository{db: db}
}

const purchaseSelect = `
	SELECT c.id, c.produto_id, p.nome, c.fornecedor_id, f.nome, p.categoria,
	       c.quantidade, c.preco_unit, DATE_FORMAT(c.data, '%Y-%m-%d'), c.user_id
	FROM Compras c
	JOIN Produto p ON p.COD = c.produto_id
	JOIN Fornecedor f ON f.id = c.fornecedor_id`

func (r *MySQLPurchaseRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error) {
	query := `
		INSERT INTO Compras (produto_id, fornecedor_id, quantidade, preco_unit, data, user_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, p.ProductID, p.SupplierID, p.Quantity, p.UnitPrice, p.Date, p.OwnerID)
	if err != nil {
		return 0, fmt.Errorf("inserting purchase: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

func (r *MySQLPurchaseRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Purchase, error) {
	query := purchaseSelect + `
		WHERE c.user_id = ?
		ORDER BY c.data DESC, c.id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying purchases: %w", err)
	}
	defer rows.Close()

	purchases := []domain.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning purchase row: %w", err)
		}
		purchases = append(purchases, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase rows: %w", err)
	}

	return purchases, nil
}

// LockByID reads the caller's purchase and locks it for the rest of tx.
func (r *MySQLPurchaseRepository) LockByID(ctx context.Context, tx *sql.Tx, id, ownerID int64) (*domain.Purchase, error) {
	query := purchaseSelect + `
		WHERE c.id = ? AND c.user_id = ?
		FOR UPDATE`

	p, err := scanPurchase(tx.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("purchase with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking purchase: %w", err)
	}
	return p, nil
}

func (r *MySQLPurchaseRepository) Update(ctx context.Context, tx *sql.Tx, p domain.Purchase) error {
	query := `
		UPDATE Compras
		SET produto_id = ?, fornecedor_id = ?, quantidade = ?, preco_unit = ?, data = ?
		WHERE id = ? AND user_id = ?`

	result, err := tx.ExecContext(ctx, query,
		p.ProductID, p.SupplierID, p.Quantity, p.UnitPrice, p.Date, p.ID, p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("updating purchase: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("purchase with id %d not found", p.ID))
	}
	return nil
}

func (r *MySQLPurchaseRepository) Delete(ctx context.Context, tx *sql.Tx, id, ownerID int64) error {
	query := `DELETE FROM Compras WHERE id = ? AND user_id = ?`

	result, err := tx.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting purchase: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("purchase with id %d not found", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	var p domain.Purchase
	err := row.Scan(
		&p.ID, &p.ProductID, &p.ProductName, &p.SupplierID, &p.SupplierName, &p.Category,
		&p.Quantity, &p.UnitPrice, &p.Date, &p.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
