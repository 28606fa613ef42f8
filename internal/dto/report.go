package dto

import "github.com/shopspring/decimal"

type ProductMonthlyProfitResponse struct {
	Month  string          `json:"mes"`
	Profit decimal.Decimal `json:"lucro_total"`
}

type MonthlyProfitResponse struct {
	Month   string          `json:"mes"`
	Revenue decimal.Decimal `json:"receita"`
	Cost    decimal.Decimal `json:"custo"`
	Profit  decimal.Decimal `json:"lucro_total"`
}

type MessageResponse struct {
	Message string `json:"mensagem"`
}
