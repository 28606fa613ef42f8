package repository

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/domain"
)

// MySQLReportRepository reads the profit views. The aggregation lives in the
// views themselves; rows are returned as stored.
type MySQLReportRepository struct {
	db *sql.DB
}

func NewMySQLReportRepository(db *sql.DB) *MySQLReportRepository {
	return &MySQLReportRepository{db: db}
}

func (r *MySQLReportRepository) ProductMonthlyProfit(ctx context.Context, productName string, ownerID int64) ([]domain.ProductMonthlyProfit, error) {
	query := `
		SELECT mes, lucro_total
		FROM lucro_produto_mensal
		WHERE produto = ? AND user_id = ?
		ORDER BY mes`

	rows, err := r.db.QueryContext(ctx, query, productName, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying product monthly profit: %w", err)
	}
	defer rows.Close()

	result := []domain.ProductMonthlyProfit{}
	for rows.Next() {
		var p domain.ProductMonthlyProfit
		if err := rows.Scan(&p.Month, &p.Profit); err != nil {
			return nil, fmt.Errorf("scanning product monthly profit row: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product monthly profit rows: %w", err)
	}

	return result, nil
}

func (r *MySQLReportRepository) MonthlyProfit(ctx context.Context, ownerID int64) ([]domain.MonthlyProfit, error) {
	query := `
		SELECT mes, receita, custo, lucro_total
		FROM lucro_mensal
		WHERE user_id = ?
		ORDER BY mes`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying monthly profit: %w", err)
	}
	defer rows.Close()

	result := []domain.MonthlyProfit{}
	for rows.Next() {
		var p domain.MonthlyProfit
		if err := rows.Scan(&p.Month, &p.Revenue, &p.Cost, &p.Profit); err != nil {
			return nil, fmt.Errorf("scanning monthly profit row: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly profit rows: %w", err)
	}

	return result, nil
}
