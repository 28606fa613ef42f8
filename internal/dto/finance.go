package dto

import "github.com/shopspring/decimal"

type FinancialEntryRequest struct {
	Description string          `json:"descricao" validate:"required,notblank,max=255"`
	Value       decimal.Decimal `json:"valor"`
	Date        string          `json:"data" validate:"required,datetime=2006-01-02"`
}

type FinancialEntryResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"descricao"`
	Value       decimal.Decimal `json:"valor"`
	Date        string          `json:"data"`
}
