package repository

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/errors"
)

// MySQLStockRepository owns the Estoque rows. Every write runs inside the
// caller's transaction.
type MySQLStockRepository struct {
	db *sql.DB
}

func NewMySQLStockRepository(db *sql.DB) *MySQLStockRepository {
	return &MySQLStockRepository{db: db}
}

// AddStock inserts the stock row or increments it by qty. An empty date keeps
// the stored one.
func (r *MySQLStockRepository) AddStock(ctx context.Context, tx *sql.Tx, productID int64, qty int, date string) error {
	query := `
		INSERT INTO Estoque (fk_cod_prod, quantidade, data)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantidade = quantidade + VALUES(quantidade), data = COALESCE(VALUES(data), data)
	`

	if _, err := tx.ExecContext(ctx, query, productID, qty, nullableDate(date)); err != nil {
		return fmt.Errorf("adding stock: %w", err)
	}
	return nil
}

// SetQuantity overwrites the stock quantity, creating the row when missing.
func (r *MySQLStockRepository) SetQuantity(ctx context.Context, tx *sql.Tx, productID int64, qty int) error {
	query := `
		INSERT INTO Estoque (fk_cod_prod, quantidade, data)
		VALUES (?, ?, CURDATE())
		ON DUPLICATE KEY UPDATE quantidade = VALUES(quantidade)
	`

	if _, err := tx.ExecContext(ctx, query, productID, qty); err != nil {
		return fmt.Errorf("setting stock quantity: %w", err)
	}
	return nil
}

// LockQuantity reads the stock row with an exclusive lock held until the
// transaction ends.
func (r *MySQLStockRepository) LockQuantity(ctx context.Context, tx *sql.Tx, productID int64) (int, error) {
	query := `SELECT quantidade FROM Estoque WHERE fk_cod_prod = ? FOR UPDATE`

	var qty int
	err := tx.QueryRowContext(ctx, query, productID).Scan(&qty)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError(fmt.Sprintf("stock for product %d not found", productID))
	}
	if err != nil {
		return 0, fmt.Errorf("locking stock: %w", err)
	}
	return qty, nil
}

// RemoveStock decrements only when enough stock is left.
func (r *MySQLStockRepository) RemoveStock(ctx context.Context, tx *sql.Tx, productID int64, qty int) error {
	query := `
		UPDATE Estoque
		SET quantidade = quantidade - ?
		WHERE fk_cod_prod = ? AND quantidade >= ?
	`

	result, err := tx.ExecContext(ctx, query, qty, productID, qty)
	if err != nil {
		return fmt.Errorf("removing stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		available, lockErr := r.LockQuantity(ctx, tx, productID)
		if _, ok := errors.IsNotFoundError(lockErr); ok {
			available = 0
		} else if lockErr != nil {
			return lockErr
		}
		return errors.NewInsufficientStockError(productID, qty, available)
	}
	return nil
}

// Reconciliation reads the recorded quantity next to the purchased and sold
// totals of a product owned by ownerID.
func (r *MySQLStockRepository) Reconciliation(ctx context.Context, productID, ownerID int64) (*domain.StockReconciliation, error) {
	query := `
		SELECT p.COD, p.nome,
		       COALESCE(e.quantidade, 0),
		       COALESCE((SELECT SUM(c.quantidade) FROM Compras c WHERE c.produto_id = p.COD), 0),
		       COALESCE((SELECT SUM(pe.quantidade) FROM Pedido pe
		                 WHERE pe.id_produto = p.COD AND LOWER(pe.status) = ?), 0)
		FROM Produto p
		LEFT JOIN Estoque e ON e.fk_cod_prod = p.COD
		WHERE p.COD = ? AND p.user_id = ?
	`

	var rec domain.StockReconciliation
	err := r.db.QueryRowContext(ctx, query, domain.OrderStatusFinalized, productID, ownerID).Scan(
		&rec.ProductCode,
		&rec.ProductName,
		&rec.Recorded,
		&rec.Purchased,
		&rec.Sold,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with cod %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying stock reconciliation: %w", err)
	}
	return &rec, nil
}

func nullableDate(date string) interface{} {
	if date == "" {
		return nil
	}
	return date
}
