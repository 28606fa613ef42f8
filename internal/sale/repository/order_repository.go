package repository

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/errors"
)

// MySQLOrderRepository stores sales as Pedido rows. Orders carry no owner of
// their own and are reached through the owner of their product.
type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderSelect = `
	SELECT pe.id, pe.id_produto, p.nome, pe.id_cliente, c.nome, pe.quantidade,
	       pe.valor_final, DATE_FORMAT(pe.data, '%Y-%m-%d'), pe.status, pe.marketplace
	FROM Pedido pe
	JOIN Produto p ON p.COD = pe.id_produto
	JOIN Cliente c ON c.id = pe.id_cliente`

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (int64, error) {
	query := `
		INSERT INTO Pedido (data, quantidade, valor_final, status, id_produto, id_cliente, marketplace)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		o.Date, o.Quantity, o.FinalValue, o.Status, o.ProductID, o.CustomerID, o.Marketplace,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// ListByOwner returns the owner's finalized orders, or every order when allStatuses is set.
func (r *MySQLOrderRepository) ListByOwner(ctx context.Context, ownerID int64, allStatuses bool) ([]domain.Order, error) {
	query := orderSelect + `
		WHERE p.user_id = ? AND (? OR LOWER(pe.status) = ?)
		ORDER BY pe.data DESC, pe.id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID, allStatuses, domain.OrderStatusFinalized)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) LockByID(ctx context.Context, tx *sql.Tx, id, ownerID int64) (*domain.Order, error) {
	query := orderSelect + `
		WHERE pe.id = ? AND p.user_id = ?
		FOR UPDATE`

	o, err := scanOrder(tx.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking order: %w", err)
	}
	return o, nil
}

func (r *MySQLOrderRepository) Update(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	query := `
		UPDATE Pedido
		SET id_produto = ?, id_cliente = ?, data = ?, quantidade = ?, valor_final = ?, status = ?
		WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, o.ProductID, o.CustomerID, o.Date, o.Quantity, o.FinalValue, o.Status, o.ID)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", o.ID))
	}
	return nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `DELETE FROM Pedido WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.ProductID, &o.ProductName, &o.CustomerID, &o.CustomerName, &o.Quantity,
		&o.FinalValue, &o.Date, &o.Status, &o.Marketplace,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
