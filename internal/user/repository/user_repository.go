package repository

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/errors"
	"backoffice/internal/infrastructure/mysql"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func (r *MySQLUserRepository) Create(ctx context.Context, user domain.User) (int64, error) {
	query := `INSERT INTO Usuario (nome, email, senha, tipo, empresa) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, string(user.Role), user.Company)
	if mysql.IsDuplicateEntry(err) {
		return 0, errors.NewConflictError("email already registered")
	}
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting inserted user id: %w", err)
	}
	return id, nil
}

func (r *MySQLUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, nome, email, senha, tipo, empresa
		FROM Usuario
		WHERE email = ?
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("user with email %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	return user, nil
}

func (r *MySQLUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, nome, email, senha, tipo, empresa
		FROM Usuario
		WHERE id = ?
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}
	return user, nil
}

func (r *MySQLUserRepository) ListByCompany(ctx context.Context, company string) ([]domain.User, error) {
	query := `
		SELECT id, nome, email, senha, tipo, empresa
		FROM Usuario
		WHERE empresa = ?
		ORDER BY nome
	`

	rows, err := r.db.QueryContext(ctx, query, company)
	if err != nil {
		return nil, fmt.Errorf("querying users by company: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}
	return users, nil
}

func (r *MySQLUserRepository) Update(ctx context.Context, user domain.User) error {
	query := `UPDATE Usuario SET nome = ?, email = ?, tipo = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, string(user.Role), user.ID)
	if mysql.IsDuplicateEntry(err) {
		return errors.NewConflictError("email already registered")
	}
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("user with id %d not found", user.ID))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var role string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.Company); err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}
