package dto

import "github.com/shopspring/decimal"

type CreateSaleRequest struct {
	ProductName  string          `json:"produto_nome" validate:"required,notblank,max=190"`
	CustomerName string          `json:"cliente_nome" validate:"required,notblank,max=190"`
	Quantity     int             `json:"quantidade" validate:"required,gt=0"`
	FinalValue   decimal.Decimal `json:"valor_final" validate:"gte=0"`
	Date         string          `json:"data" validate:"required,datetime=2006-01-02"`
	Status       string          `json:"status" validate:"required,notblank,max=40"`
}

// UpdateSaleRequest names the value "preco", as the sales listing does.
type UpdateSaleRequest struct {
	ProductName  string          `json:"produto_nome" validate:"required,notblank,max=190"`
	CustomerName string          `json:"cliente_nome" validate:"required,notblank,max=190"`
	Quantity     int             `json:"quantidade" validate:"required,gt=0"`
	Price        decimal.Decimal `json:"preco" validate:"gte=0"`
	Date         string          `json:"data" validate:"required,datetime=2006-01-02"`
	Status       string          `json:"status" validate:"required,notblank,max=40"`
}

type SaleResponse struct {
	ID       int64           `json:"id"`
	Product  string          `json:"produto"`
	Customer string          `json:"cliente"`
	Quantity int             `json:"quantidade"`
	Price    decimal.Decimal `json:"preco"`
	Date     string          `json:"data"`
	Status   string          `json:"status"`
}

type CreateSaleResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"mensagem"`
}
