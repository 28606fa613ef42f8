package repository

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const productColumns = `
	p.COD, p.nome, p.descricao, p.preco, p.categoria, p.imagem_url,
	p.id_fornecedor, p.user_id, COALESCE(e.quantidade, 0)`

func (r *MySQLRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM Produto p
		LEFT JOIN Estoque e ON e.fk_cod_prod = p.COD
		WHERE p.user_id = ?
		ORDER BY p.COD`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) ListNamesByOwner(ctx context.Context, ownerID int64) ([]string, error) {
	query := `SELECT DISTINCT nome FROM Produto WHERE user_id = ? ORDER BY nome`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying product names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning product name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product names: %w", err)
	}

	return names, nil
}

// FindByCode returns NotFound both when the product is absent and when
// ownerID does not own it.
func (r *MySQLRepository) FindByCode(ctx context.Context, code, ownerID int64) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM Produto p
		LEFT JOIN Estoque e ON e.fk_cod_prod = p.COD
		WHERE p.COD = ? AND p.user_id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, code, ownerID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with cod %d not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}
	return p, nil
}

// LockForUpdate returns the product row locked for the rest of tx, whoever owns it.
func (r *MySQLRepository) LockForUpdate(ctx context.Context, tx *sql.Tx, code int64) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM Produto p
		LEFT JOIN Estoque e ON e.fk_cod_prod = p.COD
		WHERE p.COD = ?
		FOR UPDATE`

	p, err := scanProduct(tx.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with cod %d not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("locking product: %w", err)
	}
	return p, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (int64, error) {
	query := `
		INSERT INTO Produto (nome, descricao, preco, categoria, imagem_url, id_fornecedor, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.SupplierID, p.OwnerID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	code, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return code, nil
}

// Update overwrites the catalogue fields. Supplier and owner are left as they are.
func (r *MySQLRepository) Update(ctx context.Context, tx *sql.Tx, p domain.Product) error {
	query := `
		UPDATE Produto
		SET nome = ?, descricao = ?, preco = ?, categoria = ?, imagem_url = ?
		WHERE COD = ? AND user_id = ?`

	result, err := tx.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.Code, p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with cod %d not found", p.Code))
	}
	return nil
}

// FindLotByName returns the oldest lot (lowest COD) named name owned by ownerID.
func (r *MySQLRepository) FindLotByName(ctx context.Context, tx *sql.Tx, name string, ownerID int64) (int64, error) {
	query := `
		SELECT COD
		FROM Produto
		WHERE nome = ? AND user_id = ?
		ORDER BY COD
		LIMIT 1`

	var code int64
	err := tx.QueryRowContext(ctx, query, name, ownerID).Scan(&code)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError(fmt.Sprintf("product %q not found", name))
	}
	if err != nil {
		return 0, fmt.Errorf("querying product by name: %w", err)
	}
	return code, nil
}

// MergeLot attaches supplierID when the lot has none and overwrites its category.
func (r *MySQLRepository) MergeLot(ctx context.Context, tx *sql.Tx, code, supplierID int64, category string) error {
	query := `
		UPDATE Produto
		SET id_fornecedor = COALESCE(id_fornecedor, ?), categoria = ?
		WHERE COD = ?`

	if _, err := tx.ExecContext(ctx, query, supplierID, category, code); err != nil {
		return fmt.Errorf("merging product lot: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p          domain.Product
		imageURL   sql.NullString
		supplierID sql.NullInt64
	)
	err := row.Scan(
		&p.Code, &p.Name, &p.Description, &p.Price, &p.Category, &imageURL,
		&supplierID, &p.OwnerID, &p.Quantity,
	)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	if supplierID.Valid {
		p.SupplierID = &supplierID.Int64
	}
	return &p, nil
}
